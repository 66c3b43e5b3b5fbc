package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notestream/notestream/internal/llm"
	"github.com/notestream/notestream/internal/log"
	"github.com/notestream/notestream/internal/testutil"
)

func TestAssembleBasic(t *testing.T) {
	t.Parallel()

	messages, err := Assemble(Question{
		Notes:    "# Notes\n\nGraphs have vertices.",
		Question: "What is a vertex?",
	})
	require.NoError(t, err)
	require.Len(t, messages, 3)

	assert.Equal(t, llm.RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "expert tutor")

	assert.Equal(t, llm.RoleUser, messages[1].Role)
	assert.Contains(t, messages[1].Content, "Study notes context:")
	assert.Contains(t, messages[1].Content, "Graphs have vertices.")

	assert.Equal(t, llm.RoleUser, messages[2].Role)
	assert.Equal(t, "What is a vertex?", messages[2].Content)
}

func TestAssembleExamMode(t *testing.T) {
	t.Parallel()

	messages, err := Assemble(Question{
		Notes:    "notes",
		Question: "q",
		ExamMode: true,
		ExamName: "IB Physics HL",
	})
	require.NoError(t, err)
	require.Len(t, messages, 4)

	assert.Equal(t, llm.RoleSystem, messages[1].Role)
	assert.Contains(t, messages[1].Content, "Exam mode is enabled")
	assert.Contains(t, messages[2].Content, "Target exam or competition: IB Physics HL")
}

func TestAssembleExamModeRequiresName(t *testing.T) {
	t.Parallel()

	_, err := Assemble(Question{Notes: "n", Question: "q", ExamMode: true})
	require.ErrorIs(t, err, ErrMissingExamName)

	_, err = Assemble(Question{Notes: "n", Question: "q", ExamMode: true, ExamName: "   "})
	require.ErrorIs(t, err, ErrMissingExamName)
}

func TestAssembleEmptyQuestion(t *testing.T) {
	t.Parallel()

	_, err := Assemble(Question{Notes: "n", Question: "  \n "})
	require.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestAssembleTruncatesHistory(t *testing.T) {
	t.Parallel()

	history := make([]llm.Message, 20)
	for i := range history {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		history[i] = llm.Message{Role: role, Content: fmt.Sprintf("turn %d", i)}
	}

	messages, err := Assemble(Question{Notes: "n", Question: "q", History: history})
	require.NoError(t, err)

	// system + context + 12 most recent turns + question.
	require.Len(t, messages, 15)
	assert.Equal(t, "turn 8", messages[2].Content, "oldest turns dropped")
	assert.Equal(t, "turn 19", messages[13].Content)
	assert.Contains(t, messages[1].Content, "Study notes context:", "notes always resent in full")
}

func TestAskForwardsAnswer(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockLLM("fallback")
	mock.AddResponse("vertex", "A vertex is a node in a graph.")
	svc := NewService(mock, log.NewNop())

	answer, err := svc.Ask(context.Background(), Question{
		Notes:    "notes",
		Question: "What is a vertex?",
	}, "sk-test", "")
	require.NoError(t, err)
	assert.Equal(t, "A vertex is a node in a graph.", answer)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "sk-test", calls[0].APIKey)
	assert.Equal(t, "What is a vertex?", calls[0].UserMessage)
}

func TestAskValidationFailsBeforeLLM(t *testing.T) {
	t.Parallel()

	mock := testutil.NewMockLLM("never")
	svc := NewService(mock, log.NewNop())

	_, err := svc.Ask(context.Background(), Question{Notes: "n", Question: "q", ExamMode: true}, "k", "")
	require.ErrorIs(t, err, ErrMissingExamName)
	assert.Zero(t, mock.CallCount())
}
