package questionnaire

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tbxark/dialogctl/types"
)

// ParseModel decodes a questionnaire model from YAML and validates it.
func ParseModel(data []byte) (*types.Model, error) {
	var model types.Model
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := ValidateModel(&model); err != nil {
		return nil, err
	}
	return &model, nil
}

// LoadModel reads a questionnaire model from a YAML file.
func LoadModel(path string) (*types.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return ParseModel(data)
}

// ValidateModel checks the structural invariants every model must hold:
// non-empty question and choice sequences, unique ids, and implied choices
// drawn from the shared choice set.
func ValidateModel(m *types.Model) error {
	if m == nil {
		return ErrNoModel
	}
	if len(m.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrModelInvalid)
	}
	if len(m.Choices) == 0 {
		return fmt.Errorf("%w: no choices", ErrModelInvalid)
	}
	questionIDs := make(map[string]struct{}, len(m.Questions))
	for _, q := range m.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question with empty id", ErrModelInvalid)
		}
		if _, dup := questionIDs[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrModelInvalid, q.ID)
		}
		questionIDs[q.ID] = struct{}{}
	}
	choiceIDs := make(map[string]struct{}, len(m.Choices))
	for _, c := range m.Choices {
		if c.ID == "" {
			return fmt.Errorf("%w: choice with empty id", ErrModelInvalid)
		}
		if _, dup := choiceIDs[c.ID]; dup {
			return fmt.Errorf("%w: duplicate choice id %q", ErrModelInvalid, c.ID)
		}
		choiceIDs[c.ID] = struct{}{}
	}
	if m.ImpliedChoiceForAffirm != "" {
		if _, ok := choiceIDs[m.ImpliedChoiceForAffirm]; !ok {
			return fmt.Errorf("%w: implied affirm choice %q is not in the choice set", ErrModelInvalid, m.ImpliedChoiceForAffirm)
		}
	}
	if m.ImpliedChoiceForDeny != "" {
		if _, ok := choiceIDs[m.ImpliedChoiceForDeny]; !ok {
			return fmt.Errorf("%w: implied deny choice %q is not in the choice set", ErrModelInvalid, m.ImpliedChoiceForDeny)
		}
	}
	return nil
}
