// Package questionnaire implements a multi-question dialog control: per turn
// it resolves one structured input event to exactly one guarded handler,
// applies the handler's effect to the answer store and focus, then decides
// atomically whether to seize the initiative and speak again before yielding.
package questionnaire

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tbxark/dialogctl/registry"
	"github.com/tbxark/dialogctl/types"
)

// Turn is the working set of one turn: the resolved model plus a private
// deep copy of the control state. Handler effects mutate State and emit acts
// through it; the caller's state is never touched.
type Turn struct {
	Context types.TurnContext
	Model   *types.Model
	State   *types.State

	ctrl      *Controller
	acts      []types.Act
	initiated bool
}

// Emit appends acts to the turn's output. Emitting an initiative act
// suppresses the generic initiative step for the rest of the turn, keeping
// the at-most-one-initiative guarantee.
func (t *Turn) Emit(acts ...types.Act) {
	for _, act := range acts {
		t.acts = append(t.acts, act)
		if act.Initiative() {
			t.initiated = true
		}
	}
}

// Acts returns the acts emitted so far this turn.
func (t *Turn) Acts() []types.Act { return t.acts }

// RecordAnswer writes or overwrites the answer of a question, then lets the
// confirmation policy decide whether a confirmation sub-dialog must be
// inserted: when confirmation is required and the answer is at risk, the
// ConfirmAnswer act becomes this turn's initiative act and generic initiative
// resolution is skipped.
func (t *Turn) RecordAnswer(questionID, choiceID string, atRisk bool) error {
	if _, ok := t.Model.QuestionByID(questionID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	if !t.Model.HasChoice(choiceID) {
		return fmt.Errorf("%w: %q", ErrUnknownChoice, choiceID)
	}
	t.State.Answers[questionID] = types.Answer{
		ChoiceID:                 choiceID,
		AtRiskOfMisunderstanding: atRisk,
	}
	t.State.Focus.ActiveInitiative = ""
	if atRisk && t.ctrl.cfg.ConfirmationRequired(t.Context) {
		t.State.Focus.QuestionID = questionID
		t.State.Focus.ActiveInitiative = types.InitiativeConfirmAnswer
		t.Emit(types.Act{
			Kind:       types.ActConfirmAnswer,
			QuestionID: questionID,
			ChoiceID:   choiceID,
		})
	}
	return nil
}

// nextUnanswered returns the earliest question in model order without a
// recorded answer, or "" when every question is answered.
func (t *Turn) nextUnanswered() string {
	for _, q := range t.Model.Questions {
		if _, ok := t.State.Answers[q.ID]; !ok {
			return q.ID
		}
	}
	return ""
}

// Controller orchestrates turns for one questionnaire control.
type Controller struct {
	cfg    Config
	turns  *registry.Registry[TurnHandler]
	inits  *registry.Registry[InitiativeHandler]
	logger *slog.Logger
}

func NewController(cfg Config) (*Controller, error) {
	cfg = cfg.withDefaults()
	if cfg.Model == nil && cfg.ModelProvider == nil {
		return nil, ErrNoModel
	}
	if cfg.Model != nil {
		if err := ValidateModel(cfg.Model); err != nil {
			return nil, err
		}
	}
	c := &Controller{
		cfg:    cfg,
		logger: cfg.Logger,
	}
	c.turns = registry.New(c.builtinTurnHandlers(), cfg.TurnHandlers...)
	c.inits = registry.New(c.builtinInitiativeHandlers(), cfg.InitiativeHandlers...)
	return c, nil
}

// ProcessTurn runs one full turn: resolve the event to a turn handler, apply
// its effect, then, unless an initiative act was already emitted, resolve and
// apply at most one initiative handler. The input state is never mutated; the
// returned state is the survivor the caller must persist.
func (c *Controller) ProcessTurn(ctx context.Context, tctx types.TurnContext, ev types.Event, state *types.State) (*types.State, []types.Act, error) {
	model, err := c.Model(tctx)
	if err != nil {
		return nil, nil, err
	}
	turn := &Turn{
		Context: tctx,
		Model:   model,
		State:   state.Clone(),
		ctrl:    c,
	}
	before := turn.State.Clone()

	res := c.turns.Resolve(func(h TurnHandler) bool { return h.CanHandle(turn, ev) })
	if !res.Ok() {
		return nil, nil, fmt.Errorf("%w: kind=%s", ErrUnhandled, ev.Kind)
	}
	if res.Ambiguous() {
		c.reportAmbiguity("turn", ev, res.Matches())
	}
	handler, err := res.Handler()
	if err != nil {
		return nil, nil, err
	}
	c.logger.Debug("applying turn handler", "handler", handler.Name, "event", ev.Kind)
	if err := handler.Apply(ctx, turn, ev); err != nil {
		return nil, nil, fmt.Errorf("turn handler %s: %w", handler.Name, err)
	}

	initiativeName := ""
	if !turn.initiated {
		ires := c.inits.Resolve(func(h InitiativeHandler) bool { return h.CanInitiate(turn) })
		if ires.Ambiguous() {
			c.reportAmbiguity("initiative", types.Event{}, ires.Matches())
		}
		if ires.Ok() {
			initiative, err := ires.Handler()
			if err != nil {
				return nil, nil, err
			}
			c.logger.Debug("applying initiative handler", "handler", initiative.Name)
			if err := initiative.Apply(ctx, turn); err != nil {
				return nil, nil, fmt.Errorf("initiative handler %s: %w", initiative.Name, err)
			}
			initiativeName = initiative.Name
		}
	}

	c.trace(before, turn, handler.Name, initiativeName)
	return turn.State, turn.acts, nil
}

// Model resolves the questionnaire model for one turn. Collaborators that
// consume core state one-way (interaction-model registration, rendering) read
// the model through this; they never feed back into the control.
func (c *Controller) Model(tctx types.TurnContext) (*types.Model, error) {
	if c.cfg.Model != nil {
		return c.cfg.Model, nil
	}
	model := c.cfg.ModelProvider(tctx)
	if model == nil {
		return nil, ErrNoModel
	}
	if err := ValidateModel(model); err != nil {
		return nil, err
	}
	return model, nil
}

func (c *Controller) reportAmbiguity(stage string, ev types.Event, matches []string) {
	c.logger.Warn("multiple handler guards matched, applying the first",
		"stage", stage, "matches", matches)
	if c.cfg.Diagnostics != nil {
		c.cfg.Diagnostics(Diagnostic{Stage: stage, Event: ev, Matches: matches})
	}
}
