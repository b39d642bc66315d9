package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonkmatsumo/classroom-auditor/internal/matching"
)

var matchCommand = &cobra.Command{
	Use:   "match",
	Short: "Match course structure against the taxonomy without evaluating",
	Long: `Fetches the course structure from the LMS and partitions the cycle's
taxonomy resources into matched and unmatched, printing the result as JSON.
Useful for diagnosing why a resource is not being audited.`,
	RunE: runMatchCmd,
}

var (
	matchConfigPath string
	matchBaseURL    string
	matchToken      string
	matchCourseID   int
	matchCycleID    int
	matchVerbose    bool
)

func init() {
	matchCommand.Flags().StringVar(&matchConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	matchCommand.Flags().StringVar(&matchBaseURL, "lms-url", "", "LMS base URL")
	matchCommand.Flags().StringVar(&matchToken, "token", "", "Web-service token (defaults to config or environment)")
	matchCommand.Flags().IntVar(&matchCourseID, "course", 0, "External course id to match")
	matchCommand.Flags().IntVar(&matchCycleID, "cycle", 0, "Taxonomy cycle id")
	matchCommand.Flags().BoolVarP(&matchVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = matchCommand.MarkFlagRequired("course")
	_ = matchCommand.MarkFlagRequired("cycle")

	rootCmd.AddCommand(matchCommand)
}

// matchOutput is the JSON shape printed by the match command: resource
// names plus where each one landed, without the full LMS payloads.
type matchOutput struct {
	Matched   []matchedEntry   `json:"matched"`
	Unmatched []unmatchedEntry `json:"unmatched"`
}

type matchedEntry struct {
	ResourceID int    `json:"resourceId"`
	Name       string `json:"name"`
	Section    string `json:"section,omitempty"`
	Module     string `json:"module,omitempty"`
	Sections   int    `json:"sections,omitempty"`
}

type unmatchedEntry struct {
	ResourceID int    `json:"resourceId"`
	Name       string `json:"name"`
}

func toMatchOutput(result *matching.Result) matchOutput {
	out := matchOutput{
		Matched:   make([]matchedEntry, 0, len(result.Matched)),
		Unmatched: make([]unmatchedEntry, 0, len(result.Unmatched)),
	}
	for _, m := range result.Matched {
		entry := matchedEntry{ResourceID: m.Resource.ID, Name: m.Resource.Name}
		switch {
		case m.Section != nil:
			entry.Section = m.Section.Name
		case m.Module != nil:
			entry.Module = m.Module.Name
		default:
			entry.Sections = len(m.Sections)
		}
		out.Matched = append(out.Matched, entry)
	}
	for _, u := range result.Unmatched {
		out.Unmatched = append(out.Unmatched, unmatchedEntry{ResourceID: u.Resource.ID, Name: u.Resource.Name})
	}
	return out
}

func runMatchCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(cmd, matchConfigPath, matchBaseURL, matchToken, matchVerbose)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Verbose)

	assembler, err := buildAssembler(cfg, logger)
	if err != nil {
		return err
	}

	result, err := assembler.FetchAndMatch(ctx, matchCourseID, cfg.Token, matchCycleID)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}
	return printJSON(toMatchOutput(result))
}
