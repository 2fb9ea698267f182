// Package oppick picks a 1Password item and prints one of its fields.
//
// Two pipelines share the same collaborators: TerminalPipeline asks for the
// item and field in the terminal, LauncherPipeline asks for the item through
// an external launcher and derives the field from the prompt text.
package oppick

import (
	"context"
	"errors"
	"fmt"

	"github.com/bonjoski/oppick/pkg/onepassword"
	"github.com/sirupsen/logrus"
)

const (
	DefaultLauncherCategory = "Login"
	fieldPrompt             = "Select a field to fetch"
)

var (
	ErrNoItems  = errors.New("No items found in 1Password")
	ErrNoFields = errors.New("No fields available for the selected item")
)

type ItemLister interface {
	ListItems(ctx context.Context, category string) ([]onepassword.Item, error)
}

type FieldEnumerator interface {
	FieldLabels(ctx context.Context, itemID string) ([]string, error)
}

type FieldFetcher interface {
	FieldValue(ctx context.Context, itemID, field string) (string, error)
}

// Chooser returns the option the user picked.
type Chooser interface {
	Choose(prompt string, options []string) (string, error)
}

// IndexChooser returns the zero-based index of the option the user picked.
type IndexChooser interface {
	ChooseIndex(ctx context.Context, prompt string, options []string) (int, error)
}

type TerminalPipeline struct {
	Items    ItemLister
	Fields   FieldEnumerator
	Values   FieldFetcher
	Chooser  Chooser
	Category string
	Logger   logrus.FieldLogger
}

// Run lists items, lets the user pick an item and one of its fields, and
// returns the field's revealed value.
func (p *TerminalPipeline) Run(ctx context.Context, prompt string) (string, error) {
	logger := loggerOrDefault(p.Logger)

	items, err := p.Items.ListItems(ctx, p.Category)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", ErrNoItems
	}

	title, err := p.Chooser.Choose(prompt, Titles(items))
	if err != nil {
		return "", fmt.Errorf("select item: %w", err)
	}
	item, err := ResolveTitle(items, title)
	if err != nil {
		return "", err
	}
	entry := logger.WithField("item_id", item.ID)
	entry.Debug("item selected")

	labels, err := p.Fields.FieldLabels(ctx, item.ID)
	if err != nil {
		return "", err
	}
	if len(labels) == 0 {
		return "", ErrNoFields
	}

	field, err := p.Chooser.Choose(fieldPrompt, labels)
	if err != nil {
		return "", fmt.Errorf("select field: %w", err)
	}
	entry.WithField("field", field).Debug("field selected")

	return p.Values.FieldValue(ctx, item.ID, field)
}

type LauncherPipeline struct {
	Items    ItemLister
	Values   FieldFetcher
	Chooser  IndexChooser
	Category string
	Logger   logrus.FieldLogger
}

// Run lists login items, lets the user pick one through the launcher, and
// returns its username or password depending on the prompt.
func (p *LauncherPipeline) Run(ctx context.Context, prompt string) (string, error) {
	logger := loggerOrDefault(p.Logger)

	category := p.Category
	if category == "" {
		category = DefaultLauncherCategory
	}

	items, err := p.Items.ListItems(ctx, category)
	if err != nil {
		return "", err
	}

	idx, err := p.Chooser.ChooseIndex(ctx, prompt, Titles(items))
	if err != nil {
		return "", err
	}
	item, err := ResolveIndex(items, idx)
	if err != nil {
		return "", err
	}

	field := FieldForPrompt(prompt)
	logger.WithFields(logrus.Fields{
		"item_id": item.ID,
		"field":   field,
	}).Debug("item selected")

	return p.Values.FieldValue(ctx, item.ID, field)
}

func loggerOrDefault(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger == nil {
		return logrus.StandardLogger()
	}
	return logger
}
