package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notestream/notestream/internal/generate"
)

func init() {
	cmd := &cobra.Command{
		Use:   "summary <youtube-url>",
		Short: "Generate a study summary for a YouTube tutorial",
		Args:  cobra.ExactArgs(1),
		RunE:  runSummary,
	}
	cmd.Flags().String("model", "", "model name override")
	cmd.Flags().Bool("force-refresh", false, "regenerate even if cached")
	rootCmd.AddCommand(cmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	model, _ := cmd.Flags().GetString("model")
	forceRefresh, _ := cmd.Flags().GetBool("force-refresh")

	res, err := a.generator.Summary(cmd.Context(), generate.Request{
		URL:          args[0],
		APIKey:       a.cfg.APIKey,
		Model:        model,
		ForceRefresh: forceRefresh,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s / %s (%d transcript words", res.Video.Title, res.Video.Channel, res.WordCount)
	if res.FromCache {
		fmt.Print(", cached")
	}
	fmt.Println(")")
	fmt.Println()
	printMarkdown(res.Content)
	return nil
}
