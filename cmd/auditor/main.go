// Package main provides the classroom compliance auditor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "auditor",
	Short: "Classroom compliance auditor",
	Long:  "Auditor evaluates LMS virtual classrooms against a configured quality taxonomy, matching course structure to expected resources and checking every compliance indicator.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
