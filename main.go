// Package main provides the entry point for x86state.
// x86state models the architectural register state of an x86-64 vCPU.
//
// For the full CLI, use: go run ./cmd/x86state
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("x86state - x86-64 register state model")
	fmt.Println("")
	fmt.Println("Usage: x86state [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -profile       Reset profile: power-on, init or finit")
	fmt.Println("  -config        Path to reset configuration JSON file")
	fmt.Println("  -format        Output format: table or spew")
	fmt.Println("  -write-config  Write the effective reset configuration")
	fmt.Println("  -v             Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/x86state' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/x86state' instead.")
	}
}
