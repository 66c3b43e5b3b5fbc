package cmd

import (
	"github.com/spf13/cobra"

	"github.com/notestream/notestream/internal/chat"
	"github.com/notestream/notestream/internal/generate"
	"github.com/notestream/notestream/internal/prompt"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask <youtube-url> <question>",
		Short: "Ask a question grounded in a video's study notes",
		Long: `Ask answers a question using the video's generated notes as primary
context. Notes are generated first if not already cached, so the first
ask on a new video costs two model calls.`,
		Args: cobra.ExactArgs(2),
		RunE: runAsk,
	}
	cmd.Flags().String("style", "hierarchical", "note style to ground the answer in")
	cmd.Flags().Bool("exam-mode", false, "adapt the answer to a target exam")
	cmd.Flags().String("exam", "", "target exam or competition (requires --exam-mode)")
	cmd.Flags().String("model", "", "model name override")
	rootCmd.AddCommand(cmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	style, _ := cmd.Flags().GetString("style")
	examMode, _ := cmd.Flags().GetBool("exam-mode")
	examName, _ := cmd.Flags().GetString("exam")
	model, _ := cmd.Flags().GetString("model")

	notes, err := a.generator.Notes(cmd.Context(), generate.NotesRequest{
		Request: generate.Request{
			URL:    args[0],
			APIKey: a.cfg.APIKey,
			Model:  model,
		},
		Style: prompt.NoteStyle(style),
	})
	if err != nil {
		return err
	}

	answer, err := a.chat.Ask(cmd.Context(), chat.Question{
		Notes:    notes.Content,
		Question: args[1],
		ExamMode: examMode,
		ExamName: examName,
	}, a.cfg.APIKey, model)
	if err != nil {
		return err
	}

	printMarkdown(answer)
	return nil
}
