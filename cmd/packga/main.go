// packga searches for a high-benefit packing of rectangular items into a
// fixed container with a genetic algorithm.
//
// Build:
//   go build -o packga ./cmd/packga
//
// Examples:
//   packga random --container-square-side 20 --item-count 60 --item-max-square-side 6 --max-benefit 50
//   packga file --file-input scenario.txt --image layout.pdf --save result.json
//
// The search runs until every item fits or it is interrupted. The first
// Ctrl-C finishes the current generation and writes the outputs; a second
// one aborts immediately.

package main

import (
	"os"

	"github.com/piwi3910/packga/internal/app"
)

func main() {
	os.Exit(app.New(os.Stdout, os.Stderr).Run(os.Args[1:]))
}
