// Package cmd implements the notestream command-line interface.
//
// Design: following the pattern used by kubectl, hugo, and other
// standard Go CLI tools, all application logic is contained in the cmd
// package, leaving main.go as a minimal entry point.
package cmd

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "notestream",
	Short: "Turn YouTube tutorials into study notes, quizzes, and summaries",
	Long: `NoteStream fetches a YouTube tutorial's transcript and turns it into
study artifacts: a summary, styled notes (Cornell, mind map,
hierarchical, or custom), and quizzes with answer keys.

Generated artifacts are cached locally, so repeating a request never
pays for a second model call. Set NOTESTREAM_API_KEY to supply the
model credential; it is used per request and never stored.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// parseLogLevel maps a config string to a slog level, defaulting to
// info for unknown values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
