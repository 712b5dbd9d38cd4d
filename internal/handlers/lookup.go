package handlers

import "strings"

// State is the outcome class of a handler utility query.
type State int

const (
	// NotFound means the utility ran but had nothing to report.
	NotFound State = iota
	// Found means a usable value was returned.
	Found
	// Failed means the utility could not be run or exited with an error.
	Failed
)

func (s State) String() string {
	switch s {
	case Found:
		return "found"
	case Failed:
		return "failed"
	default:
		return "not_found"
	}
}

// Lookup is the explicit result of one query so that "blank" and "broken"
// stay distinguishable.
type Lookup[T any] struct {
	State State
	Value T
	Err   error
}

// FoundValue wraps a successful value.
func FoundValue[T any](v T) Lookup[T] {
	return Lookup[T]{State: Found, Value: v}
}

// Missing returns an empty NotFound lookup.
func Missing[T any]() Lookup[T] {
	return Lookup[T]{State: NotFound}
}

// Failure wraps an error.
func Failure[T any](err error) Lookup[T] {
	return Lookup[T]{State: Failed, Err: err}
}

// OK reports whether the lookup holds a value.
func (l Lookup[T]) OK() bool {
	return l.State == Found
}

// emptyMarkers are the outputs the utilities print instead of a value.
var emptyMarkers = map[string]struct{}{
	"":                        {},
	"null":                    {},
	"(null)":                  {},
	"<no default app found>":  {},
	"<no default app found.>": {},
	"<no app found>":          {},
	"no default app found":    {},
}

// IsEmptyValue reports whether s stands for "nothing", including the null
// spellings the dialog and the utilities use.
func IsEmptyValue(s string) bool {
	_, ok := emptyMarkers[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func scalar(out string) Lookup[string] {
	value := strings.TrimSpace(out)
	if IsEmptyValue(value) {
		return Missing[string]()
	}
	return FoundValue(value)
}

func lines(out string) Lookup[[]string] {
	var values []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if IsEmptyValue(line) {
			continue
		}
		values = append(values, line)
	}
	if len(values) == 0 {
		return Missing[[]string]()
	}
	return FoundValue(values)
}
