package interpreter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/dialogctl/types"
)

func parserModel() *types.Model {
	return &types.Model{
		Questions: []types.Question{{ID: "cough"}, {ID: "headache"}},
		Choices:   []types.Choice{{ID: "often"}, {ID: "rarely"}},
	}
}

func TestLocalParser(t *testing.T) {
	tests := []struct {
		input string
		want  types.Event
	}{
		{"start", types.Event{Kind: types.EventLaunch}},
		{"  Yes ", types.Event{Kind: types.EventGeneralReference, Polarity: types.PolarityAffirm}},
		{"nope", types.Event{Kind: types.EventGeneralReference, Polarity: types.PolarityDeny}},
		{"often", types.Event{Kind: types.EventExplicitChoice, ChoiceID: "often"}},
		{"cough: rarely", types.Event{Kind: types.EventExplicitChoice, QuestionRef: "cough", ChoiceID: "rarely"}},
	}
	parser := NewLocalParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ev, err := parser.ParseEvent(context.Background(), &Request{
				Model:       parserModel(),
				State:       types.NewState(),
				MessagePair: types.MessagePair{Answer: tt.input},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev)
		})
	}
}

func TestLocalParserUnrecognized(t *testing.T) {
	parser := NewLocalParser()
	for _, input := range []string{"", "tell me a joke", "cough: never", "sometimes"} {
		_, err := parser.ParseEvent(context.Background(), &Request{
			Model:       parserModel(),
			State:       types.NewState(),
			MessagePair: types.MessagePair{Answer: input},
		})
		assert.True(t, errors.Is(err, ErrUnrecognized), "input %q", input)
	}
}

type stubParser struct {
	ev  types.Event
	err error
}

func (s stubParser) ParseEvent(ctx context.Context, req *Request) (types.Event, error) {
	return s.ev, s.err
}

func TestFailbackParser(t *testing.T) {
	want := types.Event{Kind: types.EventLaunch}
	parser := NewFailbackParser(
		stubParser{err: ErrUnrecognized},
		stubParser{ev: want},
	)
	ev, err := parser.ParseEvent(context.Background(), &Request{})
	require.NoError(t, err)
	assert.Equal(t, want, ev)

	parser = NewFailbackParser(stubParser{err: ErrUnrecognized})
	_, err = parser.ParseEvent(context.Background(), &Request{})
	assert.True(t, errors.Is(err, ErrUnrecognized))
}

func TestEventFromArgsValidation(t *testing.T) {
	_, err := eventFromArgs(parseEventArgs{Kind: "weird"})
	assert.True(t, errors.Is(err, ErrUnrecognized))

	_, err = eventFromArgs(parseEventArgs{Kind: "general_reference", Polarity: "maybe"})
	assert.True(t, errors.Is(err, ErrUnrecognized))

	_, err = eventFromArgs(parseEventArgs{Kind: "explicit_choice"})
	assert.True(t, errors.Is(err, ErrUnrecognized))

	ev, err := eventFromArgs(parseEventArgs{Kind: "explicit_choice", QuestionRef: "cough", ChoiceID: "often"})
	require.NoError(t, err)
	assert.Equal(t, types.EventExplicitChoice, ev.Kind)
	assert.Equal(t, "cough", ev.QuestionRef)
}
