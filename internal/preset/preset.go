// Package preset turns a selection string into the ordered list of items to present.
package preset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexisbeaulieu97/defaultapps/internal/items"
	"github.com/alexisbeaulieu97/defaultapps/internal/logger"
	apperrors "github.com/alexisbeaulieu97/defaultapps/pkg/errors"
)

// AllPreset selects every registry item.
const AllPreset = "all"

var builtin = map[string][]string{
	"browser-only": {"https"},
	"email-only":   {"mailto"},
	"docs-only":    {"pdf", "docx", "xlsx", "txt"},
	"office-only":  {"docx", "xlsx", "pptx"},
}

// Preset is a named selection shortcut.
type Preset struct {
	Name   string
	Tokens []string
}

// Resolver maps selection specs to items.
type Resolver struct {
	registry *items.Registry
	presets  map[string][]string
	log      *logger.Logger
}

// NewResolver creates a resolver over reg. Custom presets override built-in
// ones of the same name.
func NewResolver(reg *items.Registry, custom map[string][]string, log *logger.Logger) *Resolver {
	presets := make(map[string][]string, len(builtin)+len(custom))
	for name, tokens := range builtin {
		presets[name] = tokens
	}
	for name, tokens := range custom {
		presets[strings.ToLower(strings.TrimSpace(name))] = tokens
	}
	return &Resolver{registry: reg, presets: presets, log: log}
}

// Presets lists every known preset sorted by name, including "all".
func (r *Resolver) Presets() []Preset {
	out := make([]Preset, 0, len(r.presets)+1)
	for name, tokens := range r.presets {
		out = append(out, Preset{Name: name, Tokens: append([]string(nil), tokens...)})
	}
	if _, overridden := r.presets[AllPreset]; !overridden {
		out = append(out, Preset{Name: AllPreset, Tokens: r.registry.Tokens()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve returns the ordered selection for spec. A preset name expands to its
// tokens; anything else is treated as a comma separated token list. Unknown
// tokens are dropped with a warning and duplicates keep their first position.
// An empty result is a fatal configuration error.
func (r *Resolver) Resolve(spec string) ([]items.Item, error) {
	normalized := strings.ToLower(strings.TrimSpace(spec))

	var tokens []string
	if preset, ok := r.presets[normalized]; ok {
		tokens = preset
	} else if normalized == AllPreset {
		tokens = r.registry.Tokens()
	} else {
		tokens = strings.Split(normalized, ",")
	}

	selection := make([]items.Item, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, raw := range tokens {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "" {
			continue
		}
		item, ok := r.registry.Lookup(token)
		if !ok {
			r.log.With("token", token).Warn("ignoring unknown item")
			continue
		}
		if _, dup := seen[item.Token]; dup {
			continue
		}
		seen[item.Token] = struct{}{}
		selection = append(selection, item)
	}

	if len(selection) == 0 {
		return nil, apperrors.NewValidationError("selection", fmt.Sprintf("%q does not name a preset or any known item", spec), nil)
	}

	return selection, nil
}

// Tokens extracts the tokens of a selection in order.
func Tokens(selection []items.Item) []string {
	out := make([]string, 0, len(selection))
	for _, item := range selection {
		out = append(out, item.Token)
	}
	return out
}
