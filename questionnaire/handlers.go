package questionnaire

import (
	"context"
	"fmt"

	"github.com/tbxark/dialogctl/types"
)

// Built-in handler names.
const (
	HandlerLaunch               = "Launch"
	HandlerConfirmationResponse = "ConfirmationResponse"
	HandlerDirectAnswer         = "DirectAnswer"
	HandlerExplicitChoice       = "ExplicitChoice"
	HandlerAskQuestion          = "AskQuestion"
)

// TurnHandler reacts to one structured input event. CanHandle must be pure;
// all mutation happens in Apply against the turn's state snapshot.
type TurnHandler struct {
	Name      string
	CanHandle func(t *Turn, ev types.Event) bool
	Apply     func(ctx context.Context, t *Turn, ev types.Event) error
}

func (h TurnHandler) HandlerName() string { return h.Name }

// InitiativeHandler decides whether the control should keep speaking after
// the reactive response, and what it says.
type InitiativeHandler struct {
	Name        string
	CanInitiate func(t *Turn) bool
	Apply       func(ctx context.Context, t *Turn) error
}

func (h InitiativeHandler) HandlerName() string { return h.Name }

func (c *Controller) builtinTurnHandlers() []TurnHandler {
	return []TurnHandler{
		c.launchHandler(),
		c.confirmationResponseHandler(),
		c.directAnswerHandler(),
		c.explicitChoiceHandler(),
	}
}

func (c *Controller) builtinInitiativeHandlers() []InitiativeHandler {
	return []InitiativeHandler{
		c.askQuestionHandler(),
	}
}

// launchHandler claims the opening event. It has no reactive effect; the
// initiative step decides whether a first question is asked.
func (c *Controller) launchHandler() TurnHandler {
	return TurnHandler{
		Name: HandlerLaunch,
		CanHandle: func(t *Turn, ev types.Event) bool {
			return ev.Kind == types.EventLaunch
		},
		Apply: func(ctx context.Context, t *Turn, ev types.Event) error {
			return nil
		},
	}
}

// confirmationResponseHandler interprets affirm/deny while a ConfirmAnswer
// act is outstanding. Affirm settles the tentative answer; deny withdraws it,
// so the initiative step re-asks the same question.
func (c *Controller) confirmationResponseHandler() TurnHandler {
	return TurnHandler{
		Name: HandlerConfirmationResponse,
		CanHandle: func(t *Turn, ev types.Event) bool {
			if t.State.Focus.ActiveInitiative != types.InitiativeConfirmAnswer {
				return false
			}
			if t.State.Focus.QuestionID == "" {
				return false
			}
			if ev.Kind != types.EventGeneralReference {
				return false
			}
			if ev.Polarity != types.PolarityAffirm && ev.Polarity != types.PolarityDeny {
				return false
			}
			return focusedTagsMatch(t, ev)
		},
		Apply: func(ctx context.Context, t *Turn, ev types.Event) error {
			id := t.State.Focus.QuestionID
			if _, ok := t.Model.QuestionByID(id); !ok {
				return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
			}
			answer, ok := t.State.Answers[id]
			if !ok {
				return fmt.Errorf("questionnaire: confirming %q but no tentative answer is recorded", id)
			}
			if ev.Polarity == types.PolarityAffirm {
				answer.AtRiskOfMisunderstanding = false
				t.State.Answers[id] = answer
			} else {
				delete(t.State.Answers, id)
			}
			t.State.Focus.ActiveInitiative = ""
			return nil
		},
	}
}

// directAnswerHandler records an implied answer for the focused question from
// a bare affirmative. A symmetric deny path is deliberately not built in;
// register a custom handler for it.
func (c *Controller) directAnswerHandler() TurnHandler {
	return TurnHandler{
		Name: HandlerDirectAnswer,
		CanHandle: func(t *Turn, ev types.Event) bool {
			if t.State.Focus.QuestionID == "" {
				return false
			}
			// A bare affirmative is only attributable while a question is the
			// outstanding act, not a confirmation prompt.
			if t.State.Focus.ActiveInitiative != types.InitiativeAskQuestion {
				return false
			}
			if ev.Kind != types.EventGeneralReference {
				return false
			}
			if ev.Polarity != types.PolarityAffirm {
				return false
			}
			return focusedTagsMatch(t, ev)
		},
		Apply: func(ctx context.Context, t *Turn, ev types.Event) error {
			id := t.State.Focus.QuestionID
			if _, ok := t.Model.QuestionByID(id); !ok {
				return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
			}
			return t.RecordAnswer(id, t.Model.AffirmChoice(), false)
		},
	}
}

// explicitChoiceHandler records an explicitly named choice, addressed by
// question reference or falling back to the focused question.
func (c *Controller) explicitChoiceHandler() TurnHandler {
	return TurnHandler{
		Name: HandlerExplicitChoice,
		CanHandle: func(t *Turn, ev types.Event) bool {
			if ev.Kind != types.EventExplicitChoice || ev.ChoiceID == "" {
				return false
			}
			return ev.QuestionRef != "" || t.State.Focus.QuestionID != ""
		},
		Apply: func(ctx context.Context, t *Turn, ev types.Event) error {
			id := ev.QuestionRef
			if id == "" {
				id = t.State.Focus.QuestionID
			}
			q, ok := t.Model.QuestionByID(id)
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
			}
			t.State.Focus.QuestionID = q.ID
			return t.RecordAnswer(q.ID, ev.ChoiceID, false)
		},
	}
}

// askQuestionHandler is the built-in initiative: progress to the earliest
// unanswered question. Its guard returning false is what "complete" means;
// there is no stored terminal state.
func (c *Controller) askQuestionHandler() InitiativeHandler {
	return InitiativeHandler{
		Name: HandlerAskQuestion,
		CanInitiate: func(t *Turn) bool {
			if len(t.Model.Questions) == 0 {
				return false
			}
			if len(t.State.Answers) == 0 && !c.cfg.Required(t.Context) {
				return false
			}
			if t.nextUnanswered() == "" && c.cfg.Completion(t.State).Sufficient {
				return false
			}
			return true
		},
		Apply: func(ctx context.Context, t *Turn) error {
			id := t.nextUnanswered()
			if id == "" {
				// Everything is answered but the completion hook reported
				// insufficiency: re-ask from the top.
				id = t.Model.Questions[0].ID
			}
			t.State.Focus.QuestionID = id
			t.State.Focus.ActiveInitiative = types.InitiativeAskQuestion
			t.Emit(types.Act{
				Kind:          types.ActAskQuestion,
				QuestionID:    id,
				Questionnaire: t.Model,
				Answers:       t.State.Clone().Answers,
			})
			return nil
		},
	}
}

// focusedTagsMatch checks the event's action/target qualifiers against the
// focused question. Absent qualifiers always match; an unknown focus id is
// treated as matching so Apply can surface the desynchronization as an error.
func focusedTagsMatch(t *Turn, ev types.Event) bool {
	q, ok := t.Model.QuestionByID(t.State.Focus.QuestionID)
	if !ok {
		return true
	}
	return q.MatchesAction(ev.ActionTag) && q.MatchesTarget(ev.TargetTag)
}
