// loadreport turns k6 summary exports into comparison reports.
//
// It reads every result file of a results directory, classifies each by
// environment, workload and target rate, and writes summary tables, a
// Markdown comparison of two environments and PNG charts.
package main

import (
	"os"
)

func main() {
	if err := initRootCMD().Execute(); err != nil {
		os.Exit(1)
	}
}
