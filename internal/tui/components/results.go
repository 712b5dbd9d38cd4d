package components

import (
	"github.com/alexisbeaulieu97/defaultapps/internal/model"
)

// ResultEntry represents a single item outcome for rendering.
type ResultEntry struct {
	Token  string
	Result model.ApplyResult
}

// ResultList renders apply results in selection order.
type ResultList struct {
	entries []ResultEntry
}

// NewResultList constructs a result list component.
func NewResultList(results []model.ApplyResult) ResultList {
	entries := make([]ResultEntry, 0, len(results))
	for _, res := range results {
		entries = append(entries, ResultEntry{Token: res.Token, Result: res})
	}
	return ResultList{entries: entries}
}

// Entries returns the ordered entries.
func (l ResultList) Entries() []ResultEntry {
	clone := make([]ResultEntry, len(l.entries))
	copy(clone, l.entries)
	return clone
}
