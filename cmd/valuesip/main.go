package main

import (
	"os"

	"github.com/wonny/valuesip/cmd/valuesip/commands"
)

// main is the entry point for the ValueSIP CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/valuesip [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
