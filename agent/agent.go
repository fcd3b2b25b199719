// Package agent adapts a questionnaire control into an eino ADK agent: it
// wires the interpreter, the turn controller, a renderer and a state store
// into one conversational endpoint.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"

	"github.com/tbxark/dialogctl/interpreter"
	"github.com/tbxark/dialogctl/questionnaire"
	"github.com/tbxark/dialogctl/store"
	"github.com/tbxark/dialogctl/types"
)

var _ adk.Agent = (*Agent)(nil)

type Config struct {
	Name        string
	Description string

	Controller *questionnaire.Controller
	Parser     interpreter.Parser

	// Renderer defaults to a PlainRenderer without prompts.
	Renderer Renderer

	// States defaults to an in-memory store routed by the session key.
	States *store.Store[*types.State]
}

type Agent struct {
	name        string
	description string
	controller  *questionnaire.Controller
	parser      interpreter.Parser
	renderer    Renderer
	states      store.Store[*types.State]
}

func New(cfg Config) (*Agent, error) {
	if cfg.Controller == nil {
		return nil, errors.New("agent: controller is required")
	}
	if cfg.Parser == nil {
		return nil, errors.New("agent: parser is required")
	}
	if cfg.Renderer == nil {
		cfg.Renderer = &PlainRenderer{}
	}
	states := store.New[*types.State](store.NewMemoryCache[*types.State](), "control:state", SessionKeyFromContext)
	if cfg.States != nil {
		states = *cfg.States
	}
	return &Agent{
		name:        cfg.Name,
		description: cfg.Description,
		controller:  cfg.Controller,
		parser:      cfg.Parser,
		renderer:    cfg.Renderer,
		states:      states,
	}, nil
}

func (a *Agent) Name(ctx context.Context) string {
	return a.name
}

func (a *Agent) Description(ctx context.Context) string {
	return a.description
}

// Respond runs one turn end to end: interpret the utterance, process it,
// persist the surviving state, render the reply.
func (a *Agent) Respond(ctx context.Context, userInput, lastPrompt string) (string, error) {
	ctx = WithSessionKey(ctx, sessionKeyOrDefault(ctx))
	tctx := types.TurnContext{SessionID: sessionKeyOrDefault(ctx)}

	model, err := a.controller.Model(tctx)
	if err != nil {
		return "", err
	}
	state, ok, err := a.states.Get(ctx)
	if err != nil {
		return "", err
	}
	if !ok || state == nil {
		state = types.NewState()
	}

	event, err := a.parser.ParseEvent(ctx, &interpreter.Request{
		Model: model,
		State: state,
		MessagePair: types.MessagePair{
			Question: lastPrompt,
			Answer:   userInput,
		},
	})
	if err != nil {
		return "", fmt.Errorf("interpret input: %w", err)
	}

	next, acts, err := a.controller.ProcessTurn(ctx, tctx, event, state)
	if err != nil {
		return "", err
	}
	if err := a.states.Set(ctx, next); err != nil {
		return "", fmt.Errorf("persist state: %w", err)
	}
	return a.renderer.Render(ctx, acts, next)
}

func (a *Agent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			e := recover()
			if e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{
				Err: errors.New("no messages in input"),
			})
			return
		}
		userInput := input.Messages[len(input.Messages)-1].Content
		lastPrompt := lastAssistantContent(input.Messages)
		message, err := a.Respond(ctx, userInput, lastPrompt)
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("turn failed: %w", err),
			})
			return
		}
		gen.Send(&adk.AgentEvent{
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message: &schema.Message{
						Role:    schema.Assistant,
						Content: message,
					},
					Role: schema.Assistant,
				},
			},
		})
	}()
	return iter
}

func lastAssistantContent(messages []adk.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i] != nil && messages[i].Role == schema.Assistant {
			return messages[i].Content
		}
	}
	return ""
}
