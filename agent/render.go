package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbxark/dialogctl/types"
)

// Renderer turns emitted acts into the utterance shown to the user. It is a
// one-way consumer of act payloads; a real deployment plugs in its own
// locale-aware implementation here.
type Renderer interface {
	Render(ctx context.Context, acts []types.Act, state *types.State) (string, error)
}

// PlainRenderer is a minimal renderer for examples and tests: it looks
// question text up in Prompts and falls back to the raw ids.
type PlainRenderer struct {
	// Prompts maps question id to the question text.
	Prompts map[string]string

	// Done is said when the control yields without an act.
	Done string
}

func (r *PlainRenderer) prompt(questionID string) string {
	if text, ok := r.Prompts[questionID]; ok {
		return text
	}
	return fmt.Sprintf("Please answer question %q.", questionID)
}

func (r *PlainRenderer) Render(ctx context.Context, acts []types.Act, state *types.State) (string, error) {
	if len(acts) == 0 {
		if r.Done != "" {
			return r.Done, nil
		}
		return "Thank you, that is everything I needed.", nil
	}
	var lines []string
	for _, act := range acts {
		switch act.Kind {
		case types.ActAskQuestion:
			lines = append(lines, r.prompt(act.QuestionID))
		case types.ActConfirmAnswer:
			lines = append(lines, fmt.Sprintf("Just to make sure: %q for %q, is that right?", act.ChoiceID, act.QuestionID))
		default:
			return "", fmt.Errorf("agent: no rendering for act kind %q", act.Kind)
		}
	}
	return strings.Join(lines, "\n"), nil
}
