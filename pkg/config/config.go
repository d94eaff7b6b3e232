// Package config holds the run configuration shared by both cleaning
// commands. A file is decoded as JSON, TOML or YAML by its extension; flags
// are applied on top by the caller.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type Input struct {
	Path      string `json:"path" toml:"path" yaml:"path"`
	Delimiter string `json:"delimiter" toml:"delimiter" yaml:"delimiter"`
	Strict    bool   `json:"strict" toml:"strict" yaml:"strict"`
}

type Output struct {
	Path      string `json:"path" toml:"path" yaml:"path"`
	Type      string `json:"type" toml:"type" yaml:"type"` // csv|jsonl|parquet|arff (default csv)
	Delimiter string `json:"delimiter" toml:"delimiter" yaml:"delimiter"`
}

type Report struct {
	Charts   bool   `json:"charts" toml:"charts" yaml:"charts"`
	Workbook string `json:"workbook" toml:"workbook" yaml:"workbook"` // xlsx path, empty disables
	Preview  int    `json:"preview" toml:"preview" yaml:"preview"`    // rows, 0 disables
	Profile  int    `json:"profile" toml:"profile" yaml:"profile"`    // top values per column in the input profile, 0 disables
}

type Log struct {
	Level  string `json:"level" toml:"level" yaml:"level"`    // debug|info|warn|error
	Format string `json:"format" toml:"format" yaml:"format"` // text|json
}

type Config struct {
	Input  Input  `json:"input" toml:"input" yaml:"input"`
	Output Output `json:"output" toml:"output" yaml:"output"`
	Report Report `json:"report" toml:"report" yaml:"report"`
	Log    Log    `json:"log" toml:"log" yaml:"log"`
}

// OutputTypes lists the accepted Output.Type values.
var OutputTypes = []string{"csv", "jsonl", "parquet", "arff"}

// Default returns the configuration for the given input and output paths.
func Default(input, output string) Config {
	return Config{
		Input:  Input{Path: input},
		Output: Output{Path: output, Type: "csv"},
		Log:    Log{Level: "info", Format: "text"},
	}
}

// Load decodes the file at path over base, so fields the file leaves out
// keep their base values.
func Load(path string, base Config) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	cfg := base
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields().Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return base, fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return base, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated fields and single-character delimiters.
func (c Config) Validate() error {
	if c.Output.Type != "" && !contains(OutputTypes, c.Output.Type) {
		return fmt.Errorf("unsupported output type %q (want one of %s)", c.Output.Type, strings.Join(OutputTypes, ", "))
	}
	if _, err := Delimiter(c.Input.Delimiter); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if _, err := Delimiter(c.Output.Delimiter); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if c.Report.Preview < 0 {
		return fmt.Errorf("report preview must not be negative, got %d", c.Report.Preview)
	}
	if c.Report.Profile < 0 {
		return fmt.Errorf("report profile must not be negative, got %d", c.Report.Profile)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Delimiter decodes a delimiter setting. "" means unset (0); `\t` and "tab"
// name the tab character.
func Delimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 || r[0] == '"' || r[0] == '\n' || r[0] == '\r' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r[0], nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
