package questionnaire

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/dialogctl/types"
)

func TestStateDelta(t *testing.T) {
	before := types.NewState()
	after := before.Clone()
	after.Answers["cough"] = types.Answer{ChoiceID: "often"}
	after.Focus = types.FocusState{QuestionID: "headache", ActiveInitiative: types.InitiativeAskQuestion}

	delta, err := StateDelta(before, after)
	require.NoError(t, err)

	var patch map[string]any
	require.NoError(t, sonic.Unmarshal(delta, &patch))
	answers, ok := patch["answers"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, answers, "cough")
	assert.Contains(t, patch, "focus")
}

func TestTraceHookReceivesTurnSummary(t *testing.T) {
	var traces []TurnTrace
	c := newTestController(t, Config{
		Trace: func(tr TurnTrace) { traces = append(traces, tr) },
	})

	_, _ = processTurn(t, c, types.Event{Kind: types.EventLaunch}, types.NewState())
	require.Len(t, traces, 1)
	assert.Equal(t, HandlerLaunch, traces[0].Handler)
	assert.Equal(t, HandlerAskQuestion, traces[0].Initiative)
	assert.Equal(t, []types.ActKind{types.ActAskQuestion}, traces[0].Acts)
	assert.NotEmpty(t, traces[0].StateDelta)
}

func TestStateDeltaEmptyWhenUnchanged(t *testing.T) {
	state := types.NewState()
	delta, err := StateDelta(state, state.Clone())
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(delta))
}
