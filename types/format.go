package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// ControlSnapshot bundles the read-only view of one control instance that
// tool-based collaborators receive as prompt context.
type ControlSnapshot struct {
	Model       *Model
	State       *State
	MessagePair MessagePair
}

func formatQuestionsSection(m *Model, s *State) string {
	if m == nil || len(m.Questions) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Questionnaire:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Question", "Target Tags", "Action Tags", "Answer")
	for _, q := range m.Questions {
		answer := ""
		if s != nil {
			if a, ok := s.Answers[q.ID]; ok {
				answer = a.ChoiceID
				if a.AtRiskOfMisunderstanding {
					answer += " (unconfirmed)"
				}
			}
		}
		_ = table.Append(q.ID, strings.Join(q.TargetTags, ", "), strings.Join(q.ActionTags, ", "), answer)
	}
	_ = table.Render()
	return buf.String()
}

func formatChoicesSection(m *Model) string {
	if m == nil || len(m.Choices) == 0 {
		return ""
	}
	ids := make([]string, 0, len(m.Choices))
	for _, c := range m.Choices {
		ids = append(ids, c.ID)
	}
	return fmt.Sprintf("# Allowed choices (shared by every question):\n%s", strings.Join(ids, ", "))
}

func formatFocusSection(s *State) string {
	if s == nil || (s.Focus.QuestionID == "" && s.Focus.ActiveInitiative == "") {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Focus:\n")
	if s.Focus.QuestionID != "" {
		buf.WriteString(fmt.Sprintf("Question in focus: %s\n", s.Focus.QuestionID))
	}
	if s.Focus.ActiveInitiative != "" {
		buf.WriteString(fmt.Sprintf("Outstanding system act: %s\n", s.Focus.ActiveInitiative))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// FormatControlSnapshot renders the snapshot as markdown prompt text.
func FormatControlSnapshot(snap *ControlSnapshot) (string, error) {
	if snap == nil || snap.Model == nil {
		return "", fmt.Errorf("snapshot has no questionnaire model")
	}
	sections := []string{
		fmt.Sprintf("# Current Date: \n %s", time.Now().Format(time.RFC3339)),
	}
	if s := formatQuestionsSection(snap.Model, snap.State); s != "" {
		sections = append(sections, s)
	}
	if s := formatChoicesSection(snap.Model); s != "" {
		sections = append(sections, s)
	}
	if s := formatFocusSection(snap.State); s != "" {
		sections = append(sections, s)
	}
	if snap.MessagePair.Question != "" || snap.MessagePair.Answer != "" {
		sections = append(sections, "# Latest Dialogue:")
		if snap.MessagePair.Question != "" {
			sections = append(sections, fmt.Sprintf("## Assistant Question:\n%s", snap.MessagePair.Question))
		}
		if snap.MessagePair.Answer != "" {
			sections = append(sections, fmt.Sprintf("## User Answer:\n%s", snap.MessagePair.Answer))
		}
	}
	return strings.Join(sections, "\n\n"), nil
}
