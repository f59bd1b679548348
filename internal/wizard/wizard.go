// Package wizard builds parselet definitions interactively.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-parselet/pkg/definition"
)

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("wizard: aborted")
	// ErrTooDeep is returned when records nest beyond MaxDepth.
	ErrTooDeep = errors.New("wizard: records nested too deeply")
)

// MaxDepth bounds record nesting.
const MaxDepth = 4

// Field kinds offered by the wizard, in menu order.
var kindOptions = []string{
	"selector",
	"repeatable selector",
	"repeatable record",
	"record",
	"constant",
}

const (
	choiceSelector = iota
	choiceRepeatableSelector
	choiceWrapper
	choiceRecord
	choiceConstant
)

// Wizard asks for a definition through a PromptDriver.
type Wizard struct {
	driver PromptDriver
}

// New returns a wizard using driver.
func New(driver PromptDriver) *Wizard {
	return &Wizard{driver: driver}
}

// Run collects a complete definition.
func (w *Wizard) Run(ctx context.Context) (*definition.Definition, error) {
	if w == nil || w.driver == nil {
		return nil, errors.New("wizard: prompt driver is nil")
	}

	name, err := w.driver.Input(ctx, InputConfig{
		Message:   "Definition name",
		Default:   "page",
		Validator: required,
	})
	if err != nil {
		return nil, err
	}
	description, err := w.driver.Input(ctx, InputConfig{Message: "Description (optional)"})
	if err != nil {
		return nil, err
	}
	if err := w.driver.Info(ctx, "Selectors are CSS, or XPath with an \"xpath:\" prefix. Append \"| @attr\", \"| /regex/\" or \"| html\" to pick what is read."); err != nil {
		return nil, err
	}

	fields, err := w.fields(ctx, "", 0)
	if err != nil {
		return nil, err
	}
	def, err := definition.New(strings.TrimSpace(name), definition.Record(fields...))
	if err != nil {
		return nil, err
	}
	def.Description = strings.TrimSpace(description)
	return def, nil
}

func (w *Wizard) fields(ctx context.Context, path string, depth int) ([]definition.Field, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}

	var fields []definition.Field
	seen := map[string]struct{}{}
	for {
		label := "Field name (empty to finish)"
		if path != "" {
			label = fmt.Sprintf("Field name in %s (empty to finish)", path)
		}
		name, err := w.driver.Input(ctx, InputConfig{
			Message: label,
			Validator: func(s string) error {
				if _, dup := seen[strings.TrimSpace(s)]; dup {
					return fmt.Errorf("field %q already exists", strings.TrimSpace(s))
				}
				return nil
			},
		})
		if err != nil {
			return nil, err
		}
		name = strings.TrimSpace(name)
		if name == "" {
			if len(fields) > 0 {
				return fields, nil
			}
			if err := w.driver.Info(ctx, "A record needs at least one field."); err != nil {
				return nil, err
			}
			continue
		}
		if _, dup := seen[name]; dup {
			if err := w.driver.Info(ctx, fmt.Sprintf("Field %q already exists.", name)); err != nil {
				return nil, err
			}
			continue
		}

		spec, err := w.spec(ctx, joinPath(path, name), depth)
		if err != nil {
			return nil, err
		}
		seen[name] = struct{}{}
		fields = append(fields, definition.Field{Name: name, Spec: spec})
	}
}

func (w *Wizard) spec(ctx context.Context, path string, depth int) (*definition.Spec, error) {
	choice, err := w.driver.Select(ctx, SelectConfig{
		Message: fmt.Sprintf("What is %s?", path),
		Options: kindOptions,
	})
	if err != nil {
		return nil, err
	}

	switch choice {
	case choiceSelector, choiceRepeatableSelector:
		raw, err := w.driver.Input(ctx, InputConfig{
			Message:   fmt.Sprintf("Selector for %s", path),
			Validator: validSelector,
		})
		if err != nil {
			return nil, err
		}
		return definition.Leaf(raw, choice == choiceRepeatableSelector)
	case choiceWrapper:
		fields, err := w.fields(ctx, path+"[]", depth+1)
		if err != nil {
			return nil, err
		}
		return definition.Wrapper(fields...), nil
	case choiceRecord:
		fields, err := w.fields(ctx, path, depth+1)
		if err != nil {
			return nil, err
		}
		return definition.Record(fields...), nil
	case choiceConstant:
		raw, err := w.driver.Input(ctx, InputConfig{Message: fmt.Sprintf("Value for %s", path)})
		if err != nil {
			return nil, err
		}
		return definition.Constant(raw), nil
	default:
		return nil, fmt.Errorf("wizard: unknown choice %d", choice)
	}
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a value is required")
	}
	return nil
}

func validSelector(s string) error {
	_, err := definition.ParseSelector(s)
	return err
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
