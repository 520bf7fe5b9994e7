// Command stockdash serves the stock dashboard and ingests ticker snapshots.
//
// Usage:
//
//	go run ./cmd/stockdash serve
//	go run ./cmd/stockdash fetch AAPL MSFT
//	go run ./cmd/stockdash migrate
package main

import (
	"os"

	"stockdash/cmd/stockdash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
