// Command knnimpute fills missing cells of CSV tables with k-nearest-neighbor
// estimates.
//
//	knnimpute impute --input s3://lake/survey.csv.gz --output ./survey.csv --k 5 --timeout 30s
package main

import (
	"errors"
	"fmt"
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const exitTimedOut = 2

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, errTimedOut) {
			os.Exit(exitTimedOut)
		}
		os.Exit(1)
	}
}
