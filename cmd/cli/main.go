// outcheck scans finite element solver output logs and builds selection
// scripts for the sets it finds.
package main

import (
	"os"

	"github.com/ccollicutt/outcheck/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
