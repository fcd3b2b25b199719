package questionnaire

import (
	"log/slog"

	"github.com/tbxark/dialogctl/types"
)

// CompletionResult is the verdict of the completion-evaluation hook.
type CompletionResult struct {
	Sufficient     bool   `json:"sufficient"`
	ReasonCode     string `json:"reason_code,omitempty"`
	RenderedReason string `json:"rendered_reason,omitempty"`
}

// Sufficient is the completion verdict that lets the control stop asking.
func Sufficient() CompletionResult {
	return CompletionResult{Sufficient: true}
}

// Insufficient keeps the control asking and records why.
func Insufficient(reasonCode, renderedReason string) CompletionResult {
	return CompletionResult{ReasonCode: reasonCode, RenderedReason: renderedReason}
}

// Diagnostic reports a non-fatal configuration anomaly: more than one guard
// matched at a single decision point. The first match is still applied; the
// report exists so the operator can restore mutual exclusion.
type Diagnostic struct {
	Stage   string      // "turn" or "initiative"
	Event   types.Event // zero value for the initiative stage
	Matches []string    // all matching handler names, configuration order
}

// Config configures one control instance. Every field is optional except the
// model: exactly one of Model and ModelProvider must be set.
type Config struct {
	// Model is the static questionnaire content.
	Model *types.Model

	// ModelProvider derives the model from the turn context instead. The
	// returned model must be stable across the handlers of one turn.
	ModelProvider func(types.TurnContext) *types.Model

	// Required reports whether the questionnaire must progress this turn even
	// though nothing has been answered yet. Default: always true.
	Required func(types.TurnContext) bool

	// ConfirmationRequired reports whether an at-risk answer must be
	// confirmed before the dialog continues. Default: always false.
	ConfirmationRequired func(types.TurnContext) bool

	// Completion reports whether the collected answers are sufficient.
	// Default: always sufficient, so the control stops once every question
	// has an answer and never blocks on unanswered ones.
	Completion func(*types.State) CompletionResult

	// TurnHandlers and InitiativeHandlers are caller-supplied extensions.
	// They resolve after the built-in handlers, in the given order.
	TurnHandlers       []TurnHandler
	InitiativeHandlers []InitiativeHandler

	// Diagnostics receives ambiguous-match reports. Anomalies are logged
	// regardless; the callback exists for operators and tests.
	Diagnostics func(Diagnostic)

	// Trace receives a per-turn trace with the state delta. Optional.
	Trace TraceHook

	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Required == nil {
		c.Required = func(types.TurnContext) bool { return true }
	}
	if c.ConfirmationRequired == nil {
		c.ConfirmationRequired = func(types.TurnContext) bool { return false }
	}
	if c.Completion == nil {
		c.Completion = func(*types.State) CompletionResult { return Sufficient() }
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
