package oppick

import (
	"context"
	"errors"
	"testing"

	"github.com/bonjoski/oppick/pkg/onepassword"
	"github.com/bonjoski/oppick/pkg/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	items    []onepassword.Item
	err      error
	category string
}

func (f *fakeLister) ListItems(_ context.Context, category string) ([]onepassword.Item, error) {
	f.category = category
	return f.items, f.err
}

type fakeFields struct {
	labels []string
	err    error
	itemID string
}

func (f *fakeFields) FieldLabels(_ context.Context, itemID string) ([]string, error) {
	f.itemID = itemID
	return f.labels, f.err
}

type fetchCall struct {
	itemID string
	field  string
}

type fakeFetcher struct {
	value string
	err   error
	calls []fetchCall
}

func (f *fakeFetcher) FieldValue(_ context.Context, itemID, field string) (string, error) {
	f.calls = append(f.calls, fetchCall{itemID: itemID, field: field})
	return f.value, f.err
}

// MockChooser answers each prompt with the next scripted choice.
type MockChooser struct {
	choices []string
	prompts []string
	options [][]string
	err     error
}

func (m *MockChooser) Choose(prompt string, options []string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.options = append(m.options, options)
	if m.err != nil {
		return "", m.err
	}
	choice := m.choices[0]
	m.choices = m.choices[1:]
	return choice, nil
}

type fakeIndexChooser struct {
	idx     int
	err     error
	prompt  string
	options []string
}

func (f *fakeIndexChooser) ChooseIndex(_ context.Context, prompt string, options []string) (int, error) {
	f.prompt = prompt
	f.options = options
	return f.idx, f.err
}

func TestTerminalPipelineEndToEnd(t *testing.T) {
	lister := &fakeLister{items: []onepassword.Item{{ID: "abc", Title: "GitHub"}}}
	fields := &fakeFields{labels: []string{"password", "notesPlain"}}
	fetcher := &fakeFetcher{value: "hunter2"}
	chooser := &MockChooser{choices: []string{"GitHub", "password"}}

	p := &TerminalPipeline{Items: lister, Fields: fields, Values: fetcher, Chooser: chooser}

	value, err := p.Run(context.Background(), "Pick an item")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", value)

	assert.Equal(t, "", lister.category)
	assert.Equal(t, "abc", fields.itemID)
	assert.Equal(t, []fetchCall{{itemID: "abc", field: "password"}}, fetcher.calls)
	assert.Equal(t, []string{"Pick an item", "Select a field to fetch"}, chooser.prompts)
	assert.Equal(t, [][]string{{"GitHub"}, {"password", "notesPlain"}}, chooser.options)
}

func TestTerminalPipelineDuplicateTitles(t *testing.T) {
	lister := &fakeLister{items: []onepassword.Item{
		{ID: "first", Title: "Shared"},
		{ID: "other", Title: "Other"},
		{ID: "second", Title: "Shared"},
	}}
	fields := &fakeFields{labels: []string{"username"}}
	fetcher := &fakeFetcher{value: "octocat"}
	chooser := &MockChooser{choices: []string{"Shared", "username"}}

	p := &TerminalPipeline{Items: lister, Fields: fields, Values: fetcher, Chooser: chooser, Category: "Login"}

	_, err := p.Run(context.Background(), "Pick")
	require.NoError(t, err)
	assert.Equal(t, "Login", lister.category)
	assert.Equal(t, "first", fields.itemID)
}

func TestTerminalPipelineNoItems(t *testing.T) {
	chooser := &MockChooser{}
	p := &TerminalPipeline{
		Items:   &fakeLister{},
		Fields:  &fakeFields{},
		Values:  &fakeFetcher{},
		Chooser: chooser,
	}

	_, err := p.Run(context.Background(), "Pick")
	assert.ErrorIs(t, err, ErrNoItems)
	assert.Contains(t, err.Error(), "No items found")
	assert.Empty(t, chooser.prompts, "selector must not be shown")
}

func TestTerminalPipelineNoFields(t *testing.T) {
	fetcher := &fakeFetcher{}
	p := &TerminalPipeline{
		Items:   &fakeLister{items: []onepassword.Item{{ID: "abc", Title: "GitHub"}}},
		Fields:  &fakeFields{},
		Values:  fetcher,
		Chooser: &MockChooser{choices: []string{"GitHub"}},
	}

	_, err := p.Run(context.Background(), "Pick")
	assert.ErrorIs(t, err, ErrNoFields)
	assert.Empty(t, fetcher.calls)
}

func TestTerminalPipelineErrors(t *testing.T) {
	listErr := errors.New("list items: op exited with status 1")
	fieldsErr := errors.New("get item fields: op exited with status 1")
	fetchErr := errors.New("get field value: op exited with status 1")
	promptErr := errors.New("selection prompt interrupted")

	tests := []struct {
		name    string
		lister  *fakeLister
		fields  *fakeFields
		fetcher *fakeFetcher
		chooser *MockChooser
		wantErr error
	}{
		{
			name:    "list fails",
			lister:  &fakeLister{err: listErr},
			fields:  &fakeFields{},
			fetcher: &fakeFetcher{},
			chooser: &MockChooser{},
			wantErr: listErr,
		},
		{
			name:    "prompt fails",
			lister:  &fakeLister{items: []onepassword.Item{{ID: "abc", Title: "GitHub"}}},
			fields:  &fakeFields{},
			fetcher: &fakeFetcher{},
			chooser: &MockChooser{err: promptErr},
			wantErr: promptErr,
		},
		{
			name:    "field listing fails",
			lister:  &fakeLister{items: []onepassword.Item{{ID: "abc", Title: "GitHub"}}},
			fields:  &fakeFields{err: fieldsErr},
			fetcher: &fakeFetcher{},
			chooser: &MockChooser{choices: []string{"GitHub"}},
			wantErr: fieldsErr,
		},
		{
			name:    "fetch fails",
			lister:  &fakeLister{items: []onepassword.Item{{ID: "abc", Title: "GitHub"}}},
			fields:  &fakeFields{labels: []string{"password"}},
			fetcher: &fakeFetcher{err: fetchErr},
			chooser: &MockChooser{choices: []string{"GitHub", "password"}},
			wantErr: fetchErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &TerminalPipeline{Items: tt.lister, Fields: tt.fields, Values: tt.fetcher, Chooser: tt.chooser}

			value, err := p.Run(context.Background(), "Pick")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, value)
		})
	}
}

func TestTerminalPipelineUnknownTitle(t *testing.T) {
	p := &TerminalPipeline{
		Items:   &fakeLister{items: []onepassword.Item{{ID: "abc", Title: "GitHub"}}},
		Fields:  &fakeFields{},
		Values:  &fakeFetcher{},
		Chooser: &MockChooser{choices: []string{"GitLab"}},
	}

	_, err := p.Run(context.Background(), "Pick")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to map selection")
}

func TestLauncherPipeline(t *testing.T) {
	items := []onepassword.Item{
		{ID: "abc", Title: "GitHub"},
		{ID: "def", Title: "Gmail"},
	}

	tests := []struct {
		name      string
		prompt    string
		idx       int
		wantID    string
		wantField string
	}{
		{"username prompt", "Enter Username:", 1, "def", "username"},
		{"login prompt", "Login", 0, "abc", "password"},
		{"empty prompt", "", 1, "def", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &fakeLister{items: items}
			chooser := &fakeIndexChooser{idx: tt.idx}
			fetcher := &fakeFetcher{value: "secret"}

			p := &LauncherPipeline{Items: lister, Values: fetcher, Chooser: chooser}

			value, err := p.Run(context.Background(), tt.prompt)
			require.NoError(t, err)
			assert.Equal(t, "secret", value)
			assert.Equal(t, DefaultLauncherCategory, lister.category)
			assert.Equal(t, tt.prompt, chooser.prompt)
			assert.Equal(t, []string{"GitHub", "Gmail"}, chooser.options)
			assert.Equal(t, []fetchCall{{itemID: tt.wantID, field: tt.wantField}}, fetcher.calls)
		})
	}
}

func TestLauncherPipelineCancelled(t *testing.T) {
	fetcher := &fakeFetcher{}
	p := &LauncherPipeline{
		Items:   &fakeLister{items: []onepassword.Item{{ID: "abc", Title: "GitHub"}}},
		Values:  fetcher,
		Chooser: &fakeIndexChooser{err: selector.ErrCancelled},
	}

	_, err := p.Run(context.Background(), "Login")
	assert.ErrorIs(t, err, selector.ErrCancelled)
	assert.Empty(t, fetcher.calls)
}

func TestLauncherPipelineOutOfRange(t *testing.T) {
	fetcher := &fakeFetcher{}
	p := &LauncherPipeline{
		Items:    &fakeLister{items: []onepassword.Item{{ID: "abc", Title: "GitHub"}}},
		Values:   fetcher,
		Chooser:  &fakeIndexChooser{idx: 1},
		Category: "Password",
	}

	_, err := p.Run(context.Background(), "Login")
	require.Error(t, err)
	assert.NotErrorIs(t, err, selector.ErrCancelled)
	assert.Empty(t, fetcher.calls)
}
