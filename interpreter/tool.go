package interpreter

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/tbxark/dialogctl/structured"
	"github.com/tbxark/dialogctl/types"
)

const (
	parseEventToolName        = "classify_turn_event"
	parseEventToolDescription = "Classify the user's utterance into one structured dialog event: launch, general_reference, or explicit_choice."
)

type parseEventArgs struct {
	Kind        string `json:"kind" jsonschema:"required,enum=launch,enum=general_reference,enum=explicit_choice,description=The event kind"`
	Polarity    string `json:"polarity,omitempty" jsonschema:"enum=affirm,enum=deny,description=Polarity of a general reference"`
	ActionTag   string `json:"action_tag,omitempty" jsonschema:"description=Action qualifier mentioned by the user, if any"`
	TargetTag   string `json:"target_tag,omitempty" jsonschema:"description=Target qualifier mentioned by the user, if any"`
	QuestionRef string `json:"question_ref,omitempty" jsonschema:"description=Id of the question the user addressed, if explicit"`
	ChoiceID    string `json:"choice_id,omitempty" jsonschema:"description=Id of the choice the user named, for explicit_choice"`
}

// ToolBasedParser asks a tool-calling chat model to classify the utterance
// against the questionnaire snapshot.
type ToolBasedParser struct {
	chain *structured.Chain[*Request, parseEventArgs]
}

func NewToolBasedParser(chatModel model.ToolCallingChatModel) (*ToolBasedParser, error) {
	chain, err := structured.NewChain[*Request, parseEventArgs](
		chatModel,
		buildParseEventPrompt,
		parseEventToolName,
		parseEventToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedParser{chain: chain}, nil
}

func (p *ToolBasedParser) ParseEvent(ctx context.Context, req *Request) (types.Event, error) {
	result, err := p.chain.Invoke(ctx, req)
	if err != nil {
		return types.Event{}, err
	}
	if result == nil || result.Kind == "" {
		return types.Event{}, fmt.Errorf("empty event returned by %s", parseEventToolName)
	}
	return eventFromArgs(*result)
}

func eventFromArgs(args parseEventArgs) (types.Event, error) {
	kind := types.EventKind(args.Kind)
	switch kind {
	case types.EventLaunch, types.EventGeneralReference, types.EventExplicitChoice:
	default:
		return types.Event{}, fmt.Errorf("%w: unknown event kind %q", ErrUnrecognized, args.Kind)
	}
	ev := types.Event{
		Kind:        kind,
		ActionTag:   args.ActionTag,
		TargetTag:   args.TargetTag,
		QuestionRef: args.QuestionRef,
		ChoiceID:    args.ChoiceID,
	}
	switch args.Polarity {
	case "":
	case string(types.PolarityAffirm), string(types.PolarityDeny):
		ev.Polarity = types.Polarity(args.Polarity)
	default:
		return types.Event{}, fmt.Errorf("%w: unknown polarity %q", ErrUnrecognized, args.Polarity)
	}
	if kind == types.EventExplicitChoice && ev.ChoiceID == "" {
		return types.Event{}, fmt.Errorf("%w: explicit_choice without a choice id", ErrUnrecognized)
	}
	return ev, nil
}

func buildParseEventPrompt(ctx context.Context, req *Request) ([]*schema.Message, error) {
	snapshot, err := types.FormatControlSnapshot(&types.ControlSnapshot{
		Model:       req.Model,
		State:       req.State,
		MessagePair: req.MessagePair,
	})
	if err != nil {
		return nil, fmt.Errorf("format snapshot failed: %w", err)
	}

	systemPrompt := fmt.Sprintf(`You are an assistant for a questionnaire robot, classifying what the user's latest utterance means for the questionnaire.

Always combine the assistant's last question with the user's answer to determine the true intent. Do not judge intent solely from isolated words. Context is key.

Choose the most appropriate event kind:
- launch: the user wants to start or restart the questionnaire (e.g. "let's begin", "start over").
- general_reference: the user gives a bare yes/no or an anaphoric reference to the question in focus, without naming a choice. Set polarity to affirm or deny. If the user qualifies the reference (e.g. names a category matching a question's tags), set target_tag/action_tag.
- explicit_choice: the user names one of the allowed choices. Set choice_id to the exact choice id, and question_ref to the exact question id only when the user addressed a specific question.

Only use question ids and choice ids that appear in the questionnaire below. If the utterance does not fit any kind, pick the closest general_reference reading rather than inventing ids.

Call the '%s' tool with the result.`, parseEventToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(snapshot),
	}, nil
}
