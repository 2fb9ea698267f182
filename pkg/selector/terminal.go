// Package selector asks the user to pick one option from a list, either in
// the terminal or through an external launcher.
package selector

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

const defaultSize = 10

// Terminal is an interactive fuzzy-filtered list prompt. It renders on
// stderr so stdout stays clean for the selected value.
type Terminal struct {
	Stdin      io.ReadCloser
	Stdout     io.WriteCloser
	Size       int
	IsTerminal func() bool
}

func NewTerminal() *Terminal {
	return &Terminal{
		Stdin:  os.Stdin,
		Stdout: os.Stderr,
		Size:   defaultSize,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Choose blocks until the user picks one of options and returns it.
func (t *Terminal) Choose(prompt string, options []string) (string, error) {
	if t.IsTerminal != nil && !t.IsTerminal() {
		return "", errors.New("selection prompt requires a terminal")
	}

	size := t.Size
	if size <= 0 {
		size = defaultSize
	}

	sel := promptui.Select{
		Label:             prompt,
		Items:             options,
		Size:              size,
		Searcher:          fuzzySearcher(options),
		StartInSearchMode: true,
		HideSelected:      true,
		Stdin:             t.Stdin,
		Stdout:            t.Stdout,
	}

	_, choice, err := sel.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", fmt.Errorf("selection prompt interrupted")
		}
		return "", fmt.Errorf("failed to display selection prompt: %w", err)
	}
	return choice, nil
}

// fuzzySearcher matches typed characters in order anywhere in an option,
// ignoring case and spaces in the query.
func fuzzySearcher(options []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		query := strings.ReplaceAll(input, " ", "")
		return fuzzy.MatchNormalizedFold(query, options[index])
	}
}
