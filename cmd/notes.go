package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/notestream/notestream/internal/generate"
	"github.com/notestream/notestream/internal/mindmap"
	"github.com/notestream/notestream/internal/prompt"
	"github.com/notestream/notestream/internal/render"
	"github.com/notestream/notestream/internal/video"
)

func init() {
	cmd := &cobra.Command{
		Use:   "notes <youtube-url>",
		Short: "Generate styled study notes for a YouTube tutorial",
		Args:  cobra.ExactArgs(1),
		RunE:  runNotes,
	}
	cmd.Flags().String("style", "hierarchical", "note style: cornell, mind_map, hierarchical, custom")
	cmd.Flags().String("style-description", "", "description of the desired format (style=custom)")
	cmd.Flags().String("model", "", "model name override")
	cmd.Flags().Bool("force-refresh", false, "regenerate even if cached")
	cmd.Flags().StringP("output", "o", "", "write a PDF to this path instead of printing")
	cmd.Flags().String("svg", "", "write the mind-map SVG to this path (style=mind_map)")
	rootCmd.AddCommand(cmd)
}

func runNotes(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	style, _ := cmd.Flags().GetString("style")
	styleDescription, _ := cmd.Flags().GetString("style-description")
	model, _ := cmd.Flags().GetString("model")
	forceRefresh, _ := cmd.Flags().GetBool("force-refresh")
	output, _ := cmd.Flags().GetString("output")
	svgPath, _ := cmd.Flags().GetString("svg")

	noteStyle := prompt.NoteStyle(style)
	res, err := a.generator.Notes(cmd.Context(), generate.NotesRequest{
		Request: generate.Request{
			URL:          args[0],
			APIKey:       a.cfg.APIKey,
			Model:        model,
			ForceRefresh: forceRefresh,
		},
		Style:                  noteStyle,
		CustomStyleDescription: styleDescription,
	})
	if err != nil {
		return err
	}

	var diagram *mindmap.Diagram
	if noteStyle == prompt.StyleMindMap {
		root, err := mindmap.Parse(res.Content)
		if err != nil {
			return err
		}
		diagram = mindmap.Layout(root)
	}

	if svgPath != "" {
		if diagram == nil {
			return fmt.Errorf("--svg requires --style mind_map")
		}
		if err := os.WriteFile(svgPath, []byte(mindmap.SVG(diagram)), 0o644); err != nil {
			return fmt.Errorf("writing SVG: %w", err)
		}
		fmt.Println("wrote", svgPath)
	}

	if output != "" {
		doc, err := render.Notes(pdfHeader("Notes", cmd, a, res, model), res.Content, diagram)
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

// pdfHeader builds a document header, reusing the cached summary when
// one exists for the video.
func pdfHeader(kind string, cmd *cobra.Command, a *app, res generate.Result, model string) render.Header {
	hdr := render.Header{
		Kind:        kind,
		VideoTitle:  res.Video.Title,
		Channel:     res.Video.Channel,
		SourceURL:   video.WatchURL(res.Video.ID),
		GeneratedAt: time.Now(),
	}
	if summary, ok := a.generator.CachedSummary(cmd.Context(), res.Video.ID, model); ok {
		hdr.Summary = summary
	}
	return hdr
}
