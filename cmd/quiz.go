package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notestream/notestream/internal/generate"
	"github.com/notestream/notestream/internal/prompt"
	"github.com/notestream/notestream/internal/render"
)

func init() {
	cmd := &cobra.Command{
		Use:   "quiz <youtube-url>",
		Short: "Generate a quiz with answer key for a YouTube tutorial",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuiz,
	}
	cmd.Flags().String("type", "multiple_choice", "quiz type: multiple_choice, written_answers, exam_style, custom, none")
	cmd.Flags().String("difficulty", "medium", "quiz difficulty: easy, medium, hard")
	cmd.Flags().String("exam", "", "target exam or competition (type=exam_style)")
	cmd.Flags().String("quiz-description", "", "description of the desired format (type=custom)")
	cmd.Flags().String("model", "", "model name override")
	cmd.Flags().Bool("force-refresh", false, "regenerate even if cached")
	cmd.Flags().StringP("output", "o", "", "write a PDF to this path instead of printing")
	rootCmd.AddCommand(cmd)
}

func runQuiz(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	quizType, _ := cmd.Flags().GetString("type")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	examName, _ := cmd.Flags().GetString("exam")
	quizDescription, _ := cmd.Flags().GetString("quiz-description")
	model, _ := cmd.Flags().GetString("model")
	forceRefresh, _ := cmd.Flags().GetBool("force-refresh")
	output, _ := cmd.Flags().GetString("output")

	res, err := a.generator.Quiz(cmd.Context(), generate.QuizRequest{
		Request: generate.Request{
			URL:          args[0],
			APIKey:       a.cfg.APIKey,
			Model:        model,
			ForceRefresh: forceRefresh,
		},
		Type:                  prompt.QuizType(quizType),
		Difficulty:            prompt.Difficulty(difficulty),
		ExamName:              examName,
		CustomQuizDescription: quizDescription,
	})
	if err != nil {
		return err
	}

	if output != "" {
		doc, err := render.Quiz(pdfHeader("Quiz", cmd, a, res, model), res.Content)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, doc, 0o644); err != nil {
			return fmt.Errorf("writing PDF: %w", err)
		}
		fmt.Println("wrote", output)
		return nil
	}

	printMarkdown(res.Content)
	return nil
}
