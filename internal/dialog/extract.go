package dialog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/alexisbeaulieu97/defaultapps/internal/handlers"
	apperrors "github.com/alexisbeaulieu97/defaultapps/pkg/errors"
)

// swiftDialog exit codes that mean the user dismissed the form.
const (
	ExitButton2      = 2
	ExitQuitKey      = 10
	ExitDoNotDisturb = 20
)

// RawResult is what a renderer returns once the dialog closes.
type RawResult struct {
	Output   []byte
	ExitCode int
}

// Cancelled reports whether the exit code signals a dismissed dialog.
func (r RawResult) Cancelled() bool {
	switch r.ExitCode {
	case ExitButton2, ExitQuitKey, ExitDoNotDisturb:
		return true
	}
	return false
}

// Outcome is the parsed result of the dialog. Choices maps item tokens to the
// chosen application name; an empty string means nothing was chosen.
type Outcome struct {
	Cancelled bool
	Choices   map[string]string
	// ParseErr is set when the renderer output could not be decoded at all.
	ParseErr error
}

// Choice returns the chosen application for token, or "".
func (o Outcome) Choice(token string) string {
	return o.Choices[token]
}

type selectedValue struct {
	SelectedValue string `json:"selectedValue"`
}

// Extract reads the user's choices for every field of doc from raw. Fields
// without a parseable value, or with a null value, map to "".
func Extract(raw RawResult, doc *Document) Outcome {
	if raw.Cancelled() {
		return Outcome{Cancelled: true, Choices: map[string]string{}}
	}

	out := Outcome{Choices: make(map[string]string, len(doc.SelectItems))}
	for _, item := range doc.SelectItems {
		out.Choices[item.Token] = ""
	}

	fields, err := decodeOutput(raw.Output)
	if err != nil {
		out.ParseErr = err
		return out
	}

	for _, item := range doc.SelectItems {
		msg, ok := fields[item.Title]
		if !ok {
			continue
		}
		out.Choices[item.Token] = decodeValue(msg)
	}
	return out
}

func decodeOutput(output []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(output)
	if len(trimmed) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	// Some renderer builds print diagnostics around the JSON body.
	start := bytes.IndexByte(trimmed, '{')
	end := bytes.LastIndexByte(trimmed, '}')
	if start < 0 || end < start {
		return nil, apperrors.NewParseError("dialog output", 0, errNoJSON)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed[start:end+1], &fields); err != nil {
		return nil, apperrors.NewParseError("dialog output", 0, err)
	}
	return fields, nil
}

func decodeValue(msg json.RawMessage) string {
	var value string
	if err := json.Unmarshal(msg, &value); err != nil {
		var selected selectedValue
		if err := json.Unmarshal(msg, &selected); err != nil {
			return ""
		}
		value = selected.SelectedValue
	}

	value = strings.TrimSpace(value)
	if handlers.IsEmptyValue(value) {
		return ""
	}
	return value
}
