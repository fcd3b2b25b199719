// Package interpreter turns raw user utterances into the structured input
// events the control consumes. It is the NLU collaborator boundary: the
// control core itself never parses text.
package interpreter

import (
	"context"
	"errors"
	"fmt"

	"github.com/tbxark/dialogctl/types"
)

// ErrUnrecognized means the parser could not classify the utterance. Callers
// usually fall through to the next parser, or let the turn fail as unhandled.
var ErrUnrecognized = errors.New("interpreter: utterance not recognized")

// Request is everything a parser may consult: the questionnaire content, the
// current control state, and the last prompt/answer pair.
type Request struct {
	Model       *types.Model
	State       *types.State
	MessagePair types.MessagePair
}

type Parser interface {
	ParseEvent(ctx context.Context, req *Request) (types.Event, error)
}

// FailbackParser tries each parser in order and returns the first success.
type FailbackParser struct {
	parsers []Parser
}

func NewFailbackParser(parsers ...Parser) *FailbackParser {
	return &FailbackParser{parsers: parsers}
}

func (p *FailbackParser) ParseEvent(ctx context.Context, req *Request) (types.Event, error) {
	var lastErr error
	for _, parser := range p.parsers {
		ev, err := parser.ParseEvent(ctx, req)
		if err == nil {
			return ev, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = ErrUnrecognized
	}
	return types.Event{}, fmt.Errorf("all event parsers failed: %w", lastErr)
}
