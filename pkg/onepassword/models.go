package onepassword

import (
	"encoding/json"
	"fmt"
)

// Item is a stored credential as returned by `op item list`.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type listedItem struct {
	ID    *string `json:"id"`
	Title *string `json:"title"`
}

type itemDetail struct {
	Fields []itemField `json:"fields"`
}

type itemField struct {
	Label *string `json:"label"`
}

// decodeItems parses the JSON array printed by `op item list`, keeping order.
func decodeItems(data []byte) ([]Item, error) {
	var listed *[]listedItem
	if err := json.Unmarshal(data, &listed); err != nil {
		return nil, err
	}
	if listed == nil {
		return nil, fmt.Errorf("expected a JSON array of items, got null")
	}

	items := make([]Item, 0, len(*listed))
	for i, l := range *listed {
		if l.ID == nil {
			return nil, fmt.Errorf("item %d has no id", i)
		}
		if l.Title == nil {
			return nil, fmt.Errorf("item %d has no title", i)
		}
		items = append(items, Item{ID: *l.ID, Title: *l.Title})
	}
	return items, nil
}

// decodeFieldLabels parses `op item get --format json` and returns the field
// labels in order. Fields without a label are skipped.
func decodeFieldLabels(data []byte) ([]string, error) {
	var detail itemDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(detail.Fields))
	for _, f := range detail.Fields {
		if f.Label == nil || *f.Label == "" {
			continue
		}
		labels = append(labels, *f.Label)
	}
	return labels, nil
}
