package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// printMarkdown renders Markdown as styled terminal output, falling
// back to the plain text when the renderer cannot be created.
func printMarkdown(markdown string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Println(markdown)
		return
	}

	out, err := r.Render(markdown)
	if err != nil {
		fmt.Println(markdown)
		return
	}
	fmt.Println(strings.TrimRight(out, "\n"))
}
