package questionnaire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/dialogctl/types"
)

func TestParseModel(t *testing.T) {
	data := []byte(`
questions:
  - id: cough
    target_tags: [symptom]
  - id: headache
choices:
  - id: often
  - id: rarely
implied_choice_for_affirm: often
`)
	model, err := ParseModel(data)
	require.NoError(t, err)
	assert.Len(t, model.Questions, 2)
	assert.Equal(t, []string{"symptom"}, model.Questions[0].TargetTags)
	assert.Equal(t, "often", model.AffirmChoice())
	assert.Equal(t, "rarely", model.DenyChoice(), "deny falls back to the last choice")
}

func TestValidateModel(t *testing.T) {
	base := func() *types.Model {
		return &types.Model{
			Questions: []types.Question{{ID: "a"}, {ID: "b"}},
			Choices:   []types.Choice{{ID: "x"}, {ID: "y"}},
		}
	}

	tests := []struct {
		name   string
		mutate func(*types.Model)
		want   error
	}{
		{"valid", func(*types.Model) {}, nil},
		{"no questions", func(m *types.Model) { m.Questions = nil }, ErrModelInvalid},
		{"no choices", func(m *types.Model) { m.Choices = nil }, ErrModelInvalid},
		{"duplicate question id", func(m *types.Model) { m.Questions[1].ID = "a" }, ErrModelInvalid},
		{"duplicate choice id", func(m *types.Model) { m.Choices[1].ID = "x" }, ErrModelInvalid},
		{"empty question id", func(m *types.Model) { m.Questions[0].ID = "" }, ErrModelInvalid},
		{"implied affirm outside choice set", func(m *types.Model) { m.ImpliedChoiceForAffirm = "z" }, ErrModelInvalid},
		{"implied deny outside choice set", func(m *types.Model) { m.ImpliedChoiceForDeny = "z" }, ErrModelInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.mutate(m)
			err := ValidateModel(m)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.want))
			}
		})
	}
}

func TestQuestionTagMatching(t *testing.T) {
	untagged := types.Question{ID: "q"}
	assert.True(t, untagged.MatchesTarget(""))
	assert.True(t, untagged.MatchesTarget(types.TagGeneric))
	assert.False(t, untagged.MatchesTarget("symptom"))

	tagged := types.Question{ID: "q", TargetTags: []string{"symptom"}, ActionTags: []string{"report"}}
	assert.True(t, tagged.MatchesTarget("symptom"))
	assert.False(t, tagged.MatchesTarget(types.TagGeneric))
	assert.True(t, tagged.MatchesAction(""))
	assert.False(t, tagged.MatchesAction("undo"))
}
