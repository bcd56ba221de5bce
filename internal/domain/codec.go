package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Decode parses a stored document and repairs it with Migrate.
func Decode(data []byte) (Quiz, error) {
	var doc Quiz
	if err := json.Unmarshal(data, &doc); err != nil {
		return Quiz{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	Migrate(&doc, nil)
	return doc, nil
}

// SortSummaries orders an index most recently edited first, then by id.
func SortSummaries(list []DocumentSummary) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].LastEdited.Equal(list[j].LastEdited) {
			return list[i].LastEdited.After(list[j].LastEdited)
		}
		return list[i].ID < list[j].ID
	})
}
