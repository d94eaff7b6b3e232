// Command titanicclean cleans a Titanic passenger CSV, prints survival
// summaries and writes the cleaned records.
package main

import (
	"context"
	"os"

	"github.com/wdm0006/janitor-reports/pkg/cli"
	"github.com/wdm0006/janitor-reports/pkg/datasets"
)

func main() {
	os.Exit(cli.Main(context.Background(), datasets.Titanic(), os.Args[1:], os.Stdout, os.Stderr))
}
