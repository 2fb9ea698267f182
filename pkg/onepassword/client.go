// Package onepassword lists and reads items through the 1Password CLI.
package onepassword

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bonjoski/oppick/pkg/process"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBinary = "op"

	// FieldFlagLabel selects a field by its label.
	FieldFlagLabel = "--field"
	// FieldFlagFields selects a field through the --fields filter.
	FieldFlagFields = "--fields"
)

type Client struct {
	Binary    string
	Vault     string
	FieldFlag string
	Runner    process.Runner
	Logger    logrus.FieldLogger
}

func New(binary string, runner process.Runner, logger logrus.FieldLogger) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		Binary:    binary,
		FieldFlag: FieldFlagLabel,
		Runner:    runner,
		Logger:    logger,
	}
}

// ListItems returns the items in the order the CLI printed them. An empty
// category lists every item.
func (c *Client) ListItems(ctx context.Context, category string) ([]Item, error) {
	args := []string{"item", "list"}
	if category != "" {
		args = append(args, "--categories", category)
	}
	args = c.withVault(args)
	args = append(args, "--format", "json")

	out, err := c.run(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	items, err := decodeItems(out)
	if err != nil {
		return nil, fmt.Errorf("list items: invalid JSON from %s: %w", c.Binary, err)
	}

	c.Logger.WithFields(logrus.Fields{
		"category": category,
		"count":    len(items),
	}).Debug("listed items")
	return items, nil
}

// FieldLabels returns the labels of the item's fields.
func (c *Client) FieldLabels(ctx context.Context, itemID string) ([]string, error) {
	args := c.withVault([]string{"item", "get", itemID})
	args = append(args, "--format", "json")

	out, err := c.run(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("get item fields: %w", err)
	}

	labels, err := decodeFieldLabels(out)
	if err != nil {
		return nil, fmt.Errorf("get item fields: invalid JSON from %s: %w", c.Binary, err)
	}

	c.Logger.WithFields(logrus.Fields{
		"item_id": itemID,
		"count":   len(labels),
	}).Debug("listed item fields")
	return labels, nil
}

// FieldValue returns the revealed value of one field, trimmed of surrounding
// whitespace.
func (c *Client) FieldValue(ctx context.Context, itemID, field string) (string, error) {
	flag := c.FieldFlag
	if flag == "" {
		flag = FieldFlagLabel
	}
	args := c.withVault([]string{"item", "get", itemID})
	args = append(args, flag, field, "--reveal")

	out, err := c.run(ctx, args)
	if err != nil {
		return "", fmt.Errorf("get field value: %w", err)
	}

	c.Logger.WithFields(logrus.Fields{
		"item_id": itemID,
		"field":   field,
	}).Debug("fetched field value")
	return strings.TrimSpace(string(out)), nil
}

func (c *Client) withVault(args []string) []string {
	if c.Vault == "" {
		return args
	}
	return append(args, "--vault", c.Vault)
}

func (c *Client) run(ctx context.Context, args []string) ([]byte, error) {
	c.Logger.WithField("args", strings.Join(args, " ")).Debug("running " + c.Binary)

	out, err := c.Runner.Run(ctx, c.Binary, args, nil)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(out) {
		return nil, fmt.Errorf("invalid UTF-8 in %s output", c.Binary)
	}
	return out, nil
}
