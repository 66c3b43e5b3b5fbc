// Package prompt holds the fixed set of LLM instruction templates and
// the style/type enumerations that select between them.
//
// Each template embeds non-negotiable content rules (completeness,
// glossary, comparison tables, generated-example labeling) as literal
// instruction text. These rules are data, not code: the builder only
// selects a template by its style tag and substitutes variables.
package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingVariable indicates a required template variable is absent
// for the chosen style. Checked with errors.Is.
var ErrMissingVariable = errors.New("missing template variable")

// NoteStyle selects a note-taking layout.
type NoteStyle string

const (
	StyleCornell      NoteStyle = "cornell"
	StyleMindMap      NoteStyle = "mind_map"
	StyleHierarchical NoteStyle = "hierarchical"
	StyleCustom       NoteStyle = "custom"
)

// Valid reports whether s names a known note style.
func (s NoteStyle) Valid() bool {
	switch s {
	case StyleCornell, StyleMindMap, StyleHierarchical, StyleCustom:
		return true
	}
	return false
}

// QuizType selects a quiz format.
type QuizType string

const (
	QuizNone           QuizType = "none"
	QuizFlashcards     QuizType = "flashcards"
	QuizMultipleChoice QuizType = "multiple_choice"
	QuizWrittenAnswers QuizType = "written_answers"
	QuizExamStyle      QuizType = "exam_style"
	QuizCrossword      QuizType = "crossword"
	QuizCustom         QuizType = "custom"
)

// Valid reports whether q names a known quiz type.
func (q QuizType) Valid() bool {
	switch q {
	case QuizNone, QuizFlashcards, QuizMultipleChoice, QuizWrittenAnswers,
		QuizExamStyle, QuizCrossword, QuizCustom:
		return true
	}
	return false
}

// Disabled reports whether q is recognized but not supported in this
// build. Disabled types are rejected before any external call.
func (q QuizType) Disabled() bool {
	return q == QuizFlashcards || q == QuizCrossword
}

// Difficulty grades quiz questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d names a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Vars carries the substitution values for a template. Unused fields
// are ignored by templates that do not reference them.
type Vars struct {
	Title                  string
	Channel                string
	Transcript             string
	Difficulty             Difficulty
	ExamName               string
	CustomStyleDescription string
	CustomQuizDescription  string
}

func (v Vars) replacer() *strings.Replacer {
	return strings.NewReplacer(
		"{title}", v.Title,
		"{channel}", v.Channel,
		"{transcript}", v.Transcript,
		"{difficulty}", string(v.Difficulty),
		"{exam_name}", v.ExamName,
		"{custom_style_description}", v.CustomStyleDescription,
		"{custom_quiz_description}", v.CustomQuizDescription,
	)
}

// Summary renders the summary prompt.
func Summary(vars Vars) string {
	return vars.replacer().Replace(summaryTemplate)
}

// Notes renders the note prompt for the given style.
// Fails with ErrMissingVariable when style is StyleCustom and no
// custom style description was provided.
func Notes(style NoteStyle, vars Vars) (string, error) {
	var tmpl string
	switch style {
	case StyleCornell:
		tmpl = cornellTemplate
	case StyleMindMap:
		tmpl = mindMapTemplate
	case StyleHierarchical:
		tmpl = hierarchicalTemplate
	case StyleCustom:
		if strings.TrimSpace(vars.CustomStyleDescription) == "" {
			return "", fmt.Errorf("%w: custom_style_description is required for style %q", ErrMissingVariable, style)
		}
		tmpl = customNotesTemplate
	default:
		return "", fmt.Errorf("unknown note style %q", style)
	}
	return vars.replacer().Replace(tmpl), nil
}

// Quiz renders the quiz prompt for the given type.
// Fails with ErrMissingVariable when a required parameter for the
// type (exam name, custom description) is blank.
func Quiz(quizType QuizType, vars Vars) (string, error) {
	var tmpl string
	switch quizType {
	case QuizFlashcards:
		tmpl = flashcardsTemplate
	case QuizMultipleChoice:
		tmpl = multipleChoiceTemplate
	case QuizWrittenAnswers:
		tmpl = writtenAnswersTemplate
	case QuizExamStyle:
		if strings.TrimSpace(vars.ExamName) == "" {
			return "", fmt.Errorf("%w: exam_name is required for quiz type %q", ErrMissingVariable, quizType)
		}
		tmpl = examStyleTemplate
	case QuizCrossword:
		tmpl = crosswordTemplate
	case QuizCustom:
		if strings.TrimSpace(vars.CustomQuizDescription) == "" {
			return "", fmt.Errorf("%w: custom_quiz_description is required for quiz type %q", ErrMissingVariable, quizType)
		}
		tmpl = customQuizTemplate
	default:
		return "", fmt.Errorf("unknown quiz type %q", quizType)
	}
	return vars.replacer().Replace(tmpl), nil
}

// SkippedQuizMarkdown is returned for QuizNone without an LLM call.
const SkippedQuizMarkdown = "# Quiz Skipped\n\nUser chose not to generate a quiz."
