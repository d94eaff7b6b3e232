// Command salesclean cleans an electronic sales CSV, prints summary tables
// and writes the cleaned records.
package main

import (
	"context"
	"os"

	"github.com/wdm0006/janitor-reports/pkg/cli"
	"github.com/wdm0006/janitor-reports/pkg/datasets"
)

func main() {
	os.Exit(cli.Main(context.Background(), datasets.Sales(), os.Args[1:], os.Stdout, os.Stderr))
}
