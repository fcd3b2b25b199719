package questionnaire

import "errors"

var (
	// ErrUnhandled means no turn handler's guard claimed the event. The
	// caller may try a sibling control or fail the whole turn; the control
	// never retries internally.
	ErrUnhandled = errors.New("questionnaire: no handler claimed the event")

	// ErrNoModel means neither a static model nor a model provider was
	// configured, or the provider returned nil.
	ErrNoModel = errors.New("questionnaire: no questionnaire model")

	// ErrModelInvalid means the questionnaire model failed validation.
	ErrModelInvalid = errors.New("questionnaire: invalid model")

	// ErrUnknownQuestion means an effect referenced a question id absent from
	// the current model. This indicates model/state desynchronization and is
	// fatal for the turn.
	ErrUnknownQuestion = errors.New("questionnaire: unknown question")

	// ErrUnknownChoice means an effect referenced a choice id outside the
	// shared choice set.
	ErrUnknownChoice = errors.New("questionnaire: unknown choice")
)
