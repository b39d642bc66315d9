package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full compliance audit for a course",
	Long: `Fetches the course structure from the LMS, matches it against the taxonomy
for the given cycle, evaluates every indicator through the area's rule module
and prints the compliance report as JSON.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runAnalyzeCmd,
}

var (
	analyzeConfigPath string
	analyzeBaseURL    string
	analyzeToken      string
	analyzeCourseID   int
	analyzeCycleID    int
	analyzeAreaID     int
	analyzeVerbose    bool
)

func init() {
	analyzeCommand.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	analyzeCommand.Flags().StringVar(&analyzeBaseURL, "lms-url", "", "LMS base URL")
	analyzeCommand.Flags().StringVar(&analyzeToken, "token", "", "Web-service token (defaults to config or environment)")
	analyzeCommand.Flags().IntVar(&analyzeCourseID, "course", 0, "External course id to audit")
	analyzeCommand.Flags().IntVar(&analyzeCycleID, "cycle", 0, "Taxonomy cycle id")
	analyzeCommand.Flags().IntVar(&analyzeAreaID, "area", 0, "Taxonomy area id")
	analyzeCommand.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = analyzeCommand.MarkFlagRequired("course")
	_ = analyzeCommand.MarkFlagRequired("cycle")
	_ = analyzeCommand.MarkFlagRequired("area")

	rootCmd.AddCommand(analyzeCommand)
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(cmd, analyzeConfigPath, analyzeBaseURL, analyzeToken, analyzeVerbose)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Verbose)
	logger.Debug().Str("config", cfg.String()).Msg("effective configuration")

	assembler, err := buildAssembler(cfg, logger)
	if err != nil {
		return err
	}

	rep, err := assembler.Analyze(ctx, analyzeCourseID, cfg.Token, analyzeCycleID, analyzeAreaID)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}
	return printJSON(rep)
}
