// A terminal symptom-triage questionnaire. Without a config file it runs
// fully offline on the keyword parser; with one, utterances fall back to a
// tool-calling chat model when the keywords miss.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"

	dialogagent "github.com/tbxark/dialogctl/agent"
	"github.com/tbxark/dialogctl/interpreter"
	"github.com/tbxark/dialogctl/questionnaire"
	"github.com/tbxark/dialogctl/store"
	"github.com/tbxark/dialogctl/types"
)

var prompts = map[string]string{
	"cough":    "How often do you cough?",
	"headache": "How often do you get headaches?",
	"fever":    "How often do you run a fever?",
}

func main() {
	modelPath := flag.String("model", "model.yaml", "path to the questionnaire model")
	confPath := flag.String("config", "", "optional path to a chat model config file")
	statePath := flag.String("state", "triage.db", "path to the session state database")
	flag.Parse()
	if err := startApp(context.Background(), *modelPath, *confPath, *statePath); err != nil {
		log.Fatalf("start app: %v", err)
	}
}

// denyAnswerHandler fills the deny gap the built-ins leave open: a bare "no"
// records the implied deny choice, flagged at risk so it gets confirmed.
func denyAnswerHandler() questionnaire.TurnHandler {
	return questionnaire.TurnHandler{
		Name: "DirectDenyAnswer",
		CanHandle: func(t *questionnaire.Turn, ev types.Event) bool {
			return t.State.Focus.QuestionID != "" &&
				t.State.Focus.ActiveInitiative == types.InitiativeAskQuestion &&
				ev.Kind == types.EventGeneralReference &&
				ev.Polarity == types.PolarityDeny
		},
		Apply: func(ctx context.Context, t *questionnaire.Turn, ev types.Event) error {
			return t.RecordAnswer(t.State.Focus.QuestionID, t.Model.DenyChoice(), true)
		},
	}
}

func buildParser(ctx context.Context, confPath string) (interpreter.Parser, error) {
	local := interpreter.NewLocalParser()
	if confPath == "" {
		return local, nil
	}
	config, err := loadConfig(confPath)
	if err != nil {
		return nil, err
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  config.APIKey,
		Model:   config.Model,
		BaseURL: config.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	toolBased, err := interpreter.NewToolBasedParser(cm)
	if err != nil {
		return nil, err
	}
	return interpreter.NewFailbackParser(local, toolBased), nil
}

func startApp(ctx context.Context, modelPath, confPath, statePath string) error {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	model, err := questionnaire.LoadModel(modelPath)
	if err != nil {
		return err
	}
	controller, err := questionnaire.NewController(questionnaire.Config{
		Model:                model,
		ConfirmationRequired: func(types.TurnContext) bool { return true },
		TurnHandlers:         []questionnaire.TurnHandler{denyAnswerHandler()},
	})
	if err != nil {
		return err
	}
	parser, err := buildParser(ctx, confPath)
	if err != nil {
		return err
	}
	cache, err := store.OpenSQLite[*types.State](statePath)
	if err != nil {
		return err
	}
	defer cache.Close()
	states := store.New[*types.State](cache, "triage:state", dialogagent.SessionKeyFromContext)

	intake, err := dialogagent.New(dialogagent.Config{
		Name:        "SymptomIntake",
		Description: "Collects how often a patient experiences each symptom",
		Controller:  controller,
		Parser:      parser,
		Renderer:    &dialogagent.PlainRenderer{Prompts: prompts},
		States:      &states,
	})
	if err != nil {
		return err
	}

	ctx = dialogagent.WithSessionKey(ctx, dialogagent.NewSessionKey())
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Symptom triage. Say \"start\" to begin, answer with yes/no or a choice (often, sometimes, never).")
	lastPrompt := ""
	for {
		fmt.Print("you: ")
		input, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Println("input closed, exiting.")
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		reply, rErr := intake.Respond(ctx, input, lastPrompt)
		if rErr != nil {
			fmt.Printf("sorry, I could not process that: %v\n", rErr)
			continue
		}
		lastPrompt = reply
		fmt.Printf("\nintake: %s\n======\n", reply)
	}
}
