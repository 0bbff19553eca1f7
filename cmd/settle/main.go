// Command settle computes settlements for a scenario file without a server.
//
//	settle compute trip.toml --algorithm greedy --explain
//	settle algorithms
package main

import (
	"os"

	"github.com/mmynk/settleup/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
