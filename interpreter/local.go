package interpreter

import (
	"context"
	"strings"

	"github.com/tbxark/dialogctl/types"
)

// LocalParser classifies utterances with keyword lists and verbatim choice
// matching. It recognizes launch phrases, bare yes/no, a bare choice id, and
// the "question: choice" form.
type LocalParser struct {
	LaunchKeywords []string
	AffirmKeywords []string
	DenyKeywords   []string
}

func NewLocalParser() *LocalParser {
	return &LocalParser{
		LaunchKeywords: []string{"start", "begin", "hello", "hi"},
		AffirmKeywords: []string{"yes", "yeah", "yep", "sure", "ok", "okay", "right", "correct"},
		DenyKeywords:   []string{"no", "nope", "nah", "wrong", "incorrect"},
	}
}

func (p *LocalParser) ParseEvent(ctx context.Context, req *Request) (types.Event, error) {
	normalized := strings.ToLower(strings.TrimSpace(req.MessagePair.Answer))
	if normalized == "" {
		return types.Event{}, ErrUnrecognized
	}
	for _, keyword := range p.LaunchKeywords {
		if normalized == keyword {
			return types.Event{Kind: types.EventLaunch}, nil
		}
	}
	for _, keyword := range p.AffirmKeywords {
		if normalized == keyword {
			return types.Event{Kind: types.EventGeneralReference, Polarity: types.PolarityAffirm}, nil
		}
	}
	for _, keyword := range p.DenyKeywords {
		if normalized == keyword {
			return types.Event{Kind: types.EventGeneralReference, Polarity: types.PolarityDeny}, nil
		}
	}
	if req.Model != nil {
		if ref, choice, ok := strings.Cut(normalized, ":"); ok {
			ref = strings.TrimSpace(ref)
			choice = strings.TrimSpace(choice)
			if _, found := req.Model.QuestionByID(ref); found && req.Model.HasChoice(choice) {
				return types.Event{Kind: types.EventExplicitChoice, QuestionRef: ref, ChoiceID: choice}, nil
			}
		}
		if req.Model.HasChoice(normalized) {
			return types.Event{Kind: types.EventExplicitChoice, ChoiceID: normalized}, nil
		}
	}
	return types.Event{}, ErrUnrecognized
}
