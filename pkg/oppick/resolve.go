package oppick

import (
	"fmt"
	"strings"

	"github.com/bonjoski/oppick/pkg/onepassword"
)

const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// Titles returns the item titles in listing order.
func Titles(items []onepassword.Item) []string {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	return titles
}

// ResolveTitle returns the first item whose title is exactly title.
func ResolveTitle(items []onepassword.Item, title string) (onepassword.Item, error) {
	for _, item := range items {
		if item.Title == title {
			return item, nil
		}
	}
	return onepassword.Item{}, fmt.Errorf("failed to map selection %q back to an item", title)
}

// ResolveIndex returns the item at position idx in listing order.
func ResolveIndex(items []onepassword.Item, idx int) (onepassword.Item, error) {
	if idx < 0 || idx >= len(items) {
		return onepassword.Item{}, fmt.Errorf("selection %d out of range for %d items", idx, len(items))
	}
	return items[idx], nil
}

// FieldForPrompt picks the field a launcher prompt is asking for: username
// when the prompt mentions it, password otherwise.
func FieldForPrompt(prompt string) string {
	if strings.Contains(strings.ToLower(prompt), FieldUsername) {
		return FieldUsername
	}
	return FieldPassword
}
