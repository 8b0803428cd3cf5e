// Command awdbnorm normalizes AWDB REST API responses saved on disk.
//
// Usage:
//
//	awdbnorm stations stations-*.json > stations.json
//	awdbnorm data --format parquet --out data.parquet data.json
//	curl -s "$AWDB/reference-data?referenceLists=units" | awdbnorm reference-data --reference-type units
//	awdbnorm validate forecasts forecasts/*.json
//
// All files given in one invocation are merged into a single table, in
// argument order. Standard input is read when no files are given.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
