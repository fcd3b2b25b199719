package agent

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/dialogctl/interpreter"
	"github.com/tbxark/dialogctl/questionnaire"
	"github.com/tbxark/dialogctl/types"
)

func newTestAgent(t *testing.T) *Agent {
	t.Helper()
	controller, err := questionnaire.NewController(questionnaire.Config{
		Model: &types.Model{
			Questions: []types.Question{{ID: "cough"}, {ID: "headache"}},
			Choices:   []types.Choice{{ID: "often"}, {ID: "rarely"}},
		},
	})
	require.NoError(t, err)
	a, err := New(Config{
		Name:        "SymptomIntake",
		Description: "Collects symptom frequency answers",
		Controller:  controller,
		Parser:      interpreter.NewLocalParser(),
		Renderer: &PlainRenderer{
			Prompts: map[string]string{
				"cough":    "How often do you cough?",
				"headache": "How often do you get headaches?",
			},
		},
	})
	require.NoError(t, err)
	return a
}

func TestAgentRespondDrivesQuestionnaire(t *testing.T) {
	a := newTestAgent(t)
	ctx := WithSessionKey(context.Background(), NewSessionKey())

	reply, err := a.Respond(ctx, "start", "")
	require.NoError(t, err)
	assert.Equal(t, "How often do you cough?", reply)

	reply, err = a.Respond(ctx, "often", reply)
	require.NoError(t, err)
	assert.Equal(t, "How often do you get headaches?", reply)

	reply, err = a.Respond(ctx, "rarely", reply)
	require.NoError(t, err)
	assert.Equal(t, "Thank you, that is everything I needed.", reply)
}

func TestAgentSessionsAreIsolated(t *testing.T) {
	a := newTestAgent(t)
	one := WithSessionKey(context.Background(), "one")
	two := WithSessionKey(context.Background(), "two")

	_, err := a.Respond(one, "start", "")
	require.NoError(t, err)
	_, err = a.Respond(one, "often", "")
	require.NoError(t, err)

	// Session two starts from scratch and is asked the first question again.
	reply, err := a.Respond(two, "start", "")
	require.NoError(t, err)
	assert.Equal(t, "How often do you cough?", reply)
}

func TestAgentRun(t *testing.T) {
	a := newTestAgent(t)
	ctx := WithSessionKey(context.Background(), NewSessionKey())

	iter := a.Run(ctx, &adk.AgentInput{
		Messages: []adk.Message{schema.UserMessage("start")},
	})
	event, ok := iter.Next()
	require.True(t, ok)
	require.NoError(t, event.Err)
	msg, err := event.Output.MessageOutput.GetMessage()
	require.NoError(t, err)
	assert.Equal(t, "How often do you cough?", msg.Content)

	_, ok = iter.Next()
	assert.False(t, ok)
}

func TestAgentRunRejectsEmptyInput(t *testing.T) {
	a := newTestAgent(t)
	iter := a.Run(context.Background(), &adk.AgentInput{})
	event, ok := iter.Next()
	require.True(t, ok)
	assert.Error(t, event.Err)
}
