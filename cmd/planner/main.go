// Package main provides the course planner command line. Every command prints JSON.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/limaJavier/courseplanner/pkg/apperrors"
)

const (
	Version = "0.1.0"
	appName = "courseplanner"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		var custom *apperrors.CustomError
		if errors.As(err, &custom) {
			encoded, _ := json.Marshal(map[string]any{"error": custom})
			fmt.Fprintln(os.Stderr, string(encoded))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
