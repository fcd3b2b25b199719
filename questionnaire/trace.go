package questionnaire

import (
	"encoding/json"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/tbxark/dialogctl/types"
)

// TurnTrace summarizes one processed turn for debugging and audit: which
// handlers ran, which acts came out, and the state delta as an RFC 7386
// merge patch.
type TurnTrace struct {
	Handler    string          `json:"handler"`
	Initiative string          `json:"initiative,omitempty"`
	Acts       []types.ActKind `json:"acts,omitempty"`
	StateDelta json.RawMessage `json:"state_delta,omitempty"`
}

type TraceHook func(TurnTrace)

// StateDelta computes the merge patch that transforms before into after.
func StateDelta(before, after *types.State) (json.RawMessage, error) {
	prev, err := sonic.Marshal(before)
	if err != nil {
		return nil, err
	}
	next, err := sonic.Marshal(after)
	if err != nil {
		return nil, err
	}
	return jsonpatch.CreateMergePatch(prev, next)
}

func (c *Controller) trace(before *types.State, turn *Turn, handler, initiative string) {
	kinds := make([]types.ActKind, 0, len(turn.acts))
	for _, act := range turn.acts {
		kinds = append(kinds, act.Kind)
	}
	delta, err := StateDelta(before, turn.State)
	if err != nil {
		c.logger.Warn("turn trace delta failed", "error", err)
	}
	c.logger.Debug("turn processed",
		"handler", handler, "initiative", initiative,
		"acts", kinds, "delta", string(delta))
	if c.cfg.Trace != nil {
		c.cfg.Trace(TurnTrace{
			Handler:    handler,
			Initiative: initiative,
			Acts:       kinds,
			StateDelta: delta,
		})
	}
}
