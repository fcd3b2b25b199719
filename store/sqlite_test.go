package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/dialogctl/types"
)

func TestSQLiteCacheRoundTrip(t *testing.T) {
	cache, err := OpenSQLite[*types.State](filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	ctx := context.Background()
	_, ok, err := cache.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	state := types.NewState()
	state.Answers["cough"] = types.Answer{ChoiceID: "rarely", AtRiskOfMisunderstanding: true}
	state.Focus = types.FocusState{QuestionID: "cough", ActiveInitiative: types.InitiativeConfirmAnswer}
	require.NoError(t, cache.Set(ctx, "s1", state))

	got, ok, err := cache.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state, got)

	// Overwrite through the upsert path.
	state.Focus.ActiveInitiative = ""
	require.NoError(t, cache.Set(ctx, "s1", state))
	got, _, err = cache.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.Focus.ActiveInitiative)

	exists, err := cache.Exists(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Del(ctx, "s1"))
	exists, err = cache.Exists(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, exists)
}
