package types

// TagGeneric is the built-in reference tag assumed for questions that do not
// declare their own target or action tags.
const TagGeneric = "generic"

type Polarity string

const (
	PolarityAffirm Polarity = "affirm"
	PolarityDeny   Polarity = "deny"
)

type EventKind string

const (
	// EventLaunch opens the dialog; it carries no reactive payload and exists
	// so the control can take initiative on the very first turn.
	EventLaunch EventKind = "launch"
	// EventGeneralReference is a bare affirm/deny or an anaphoric reference,
	// optionally qualified by action/target tags.
	EventGeneralReference EventKind = "general_reference"
	// EventExplicitChoice names a concrete choice, optionally addressed to a
	// specific question.
	EventExplicitChoice EventKind = "explicit_choice"
)

// Event is one structured input event, produced upstream by an interpreter
// from the raw utterance. The control core never sees raw text.
type Event struct {
	Kind        EventKind `json:"kind"`
	Polarity    Polarity  `json:"polarity,omitempty"`
	ActionTag   string    `json:"action_tag,omitempty"`
	TargetTag   string    `json:"target_tag,omitempty"`
	QuestionRef string    `json:"question_ref,omitempty"`
	ChoiceID    string    `json:"choice_id,omitempty"`
}

// Question is a single line-item of a questionnaire. Target and action tags
// decide which qualified events may be interpreted against it; when empty,
// only the generic reference tag matches.
type Question struct {
	ID         string   `json:"id" yaml:"id"`
	TargetTags []string `json:"target_tags,omitempty" yaml:"target_tags,omitempty"`
	ActionTags []string `json:"action_tags,omitempty" yaml:"action_tags,omitempty"`
}

// MatchesTarget reports whether tag may refer to this question. An empty tag
// always matches.
func (q Question) MatchesTarget(tag string) bool {
	return matchesTag(tag, q.TargetTags)
}

// MatchesAction reports whether tag may act on this question. An empty tag
// always matches.
func (q Question) MatchesAction(tag string) bool {
	return matchesTag(tag, q.ActionTags)
}

func matchesTag(tag string, tags []string) bool {
	if tag == "" {
		return true
	}
	if len(tags) == 0 {
		return tag == TagGeneric
	}
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

type Choice struct {
	ID string `json:"id" yaml:"id"`
}

// Model is the static content of one questionnaire: an ordered question
// sequence and the shared choice set every question answers from. It must be
// stable for the duration of one turn's processing.
type Model struct {
	Questions []Question `json:"questions" yaml:"questions"`
	Choices   []Choice   `json:"choices" yaml:"choices"`

	// ImpliedChoiceForAffirm and ImpliedChoiceForDeny map bare yes/no answers
	// onto a concrete choice. Both default to the last choice when unset.
	ImpliedChoiceForAffirm string `json:"implied_choice_for_affirm,omitempty" yaml:"implied_choice_for_affirm,omitempty"`
	ImpliedChoiceForDeny   string `json:"implied_choice_for_deny,omitempty" yaml:"implied_choice_for_deny,omitempty"`
}

// QuestionByID returns the question with the given id.
func (m *Model) QuestionByID(id string) (Question, bool) {
	for _, q := range m.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// HasChoice reports whether id is part of the shared choice set.
func (m *Model) HasChoice(id string) bool {
	for _, c := range m.Choices {
		if c.ID == id {
			return true
		}
	}
	return false
}

// AffirmChoice resolves the choice a bare affirmative maps to.
func (m *Model) AffirmChoice() string {
	if m.ImpliedChoiceForAffirm != "" {
		return m.ImpliedChoiceForAffirm
	}
	return m.lastChoice()
}

// DenyChoice resolves the choice a bare negative maps to.
func (m *Model) DenyChoice() string {
	if m.ImpliedChoiceForDeny != "" {
		return m.ImpliedChoiceForDeny
	}
	return m.lastChoice()
}

func (m *Model) lastChoice() string {
	if len(m.Choices) == 0 {
		return ""
	}
	return m.Choices[len(m.Choices)-1].ID
}

// Answer is the recorded answer of one question. Re-answering overwrites the
// whole value. AtRiskOfMisunderstanding marks answers derived through a
// low-confidence inference path.
type Answer struct {
	ChoiceID                 string `json:"choice_id"`
	AtRiskOfMisunderstanding bool   `json:"at_risk_of_misunderstanding,omitempty"`
}

// InitiativeName identifies which initiative act is outstanding, so a later
// bare yes/no can be attributed correctly.
type InitiativeName string

const (
	InitiativeAskQuestion   InitiativeName = "AskQuestion"
	InitiativeConfirmAnswer InitiativeName = "ConfirmAnswer"
)

// FocusState tracks the question an unqualified answer applies to and the
// outstanding initiative act.
type FocusState struct {
	QuestionID       string         `json:"question_id,omitempty"`
	ActiveInitiative InitiativeName `json:"active_initiative,omitempty"`
}

// State is the serializable per-instance state of one control: the answer
// store plus focus. It survives between turns via an external store and is
// mutated only by handler effects.
type State struct {
	Answers map[string]Answer `json:"answers"`
	Focus   FocusState        `json:"focus"`
}

func NewState() *State {
	return &State{Answers: map[string]Answer{}}
}

// Clone returns a deep copy. Turn processing mutates only the copy so guard
// evaluation always observes a stable snapshot.
func (s *State) Clone() *State {
	if s == nil {
		return NewState()
	}
	out := &State{
		Answers: make(map[string]Answer, len(s.Answers)),
		Focus:   s.Focus,
	}
	for id, a := range s.Answers {
		out.Answers[id] = a
	}
	return out
}

// Reset clears all answers and focus.
func (s *State) Reset() {
	s.Answers = map[string]Answer{}
	s.Focus = FocusState{}
}

type ActKind string

const (
	ActAskQuestion   ActKind = "ask_question"
	ActConfirmAnswer ActKind = "confirm_answer"
)

// Act is one emitted system act. Both built-in kinds are initiative acts. The
// payload carries everything a rendering collaborator needs, so it never has
// to consult the control again.
type Act struct {
	Kind       ActKind `json:"kind"`
	QuestionID string  `json:"question_id"`

	// ChoiceID is set for ConfirmAnswer: the tentative answer to confirm.
	ChoiceID string `json:"choice_id,omitempty"`

	// Questionnaire and Answers are set for AskQuestion: the full content and
	// the full answer store at emission time.
	Questionnaire *Model            `json:"questionnaire,omitempty"`
	Answers       map[string]Answer `json:"answers,omitempty"`
}

// Initiative reports whether the act proactively drives the dialog forward.
func (a Act) Initiative() bool {
	switch a.Kind {
	case ActAskQuestion, ActConfirmAnswer:
		return true
	}
	return false
}

// TurnContext is the per-turn ambient information configuration hooks are
// evaluated against.
type TurnContext struct {
	SessionID  string            `json:"session_id,omitempty"`
	Locale     string            `json:"locale,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// MessagePair is the last prompt/answer exchange, fed to tool-based
// interpreters as dialog context.
type MessagePair struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}
