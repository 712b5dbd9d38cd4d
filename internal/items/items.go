// Package items holds the registry of URL schemes and file types whose
// default handler can be chosen.
package items

import (
	"fmt"
	"strings"

	apperrors "github.com/alexisbeaulieu97/defaultapps/pkg/errors"
)

// Kind distinguishes URL schemes from file types.
type Kind string

const (
	// KindURL items are bound with the handler utility's scheme commands.
	KindURL Kind = "url"
	// KindType items are file extensions that resolve to a UTI before binding.
	KindType Kind = "type"
)

// Item is a single selectable scheme or file type.
type Item struct {
	Token string
	Label string
	Kind  Kind
	// Key is what the handler utility is queried with: the scheme name or the
	// file extension. Defaults to Token.
	Key string
}

// LookupKey returns the key passed to the handler utility.
func (i Item) LookupKey() string {
	if i.Key != "" {
		return i.Key
	}
	return i.Token
}

// Builtin returns the default item table in presentation order.
func Builtin() []Item {
	return []Item{
		{Token: "https", Label: "Web Browser (https)", Kind: KindURL},
		{Token: "mailto", Label: "Email (mailto)", Kind: KindURL},
		{Token: "ftp", Label: "File Transfer (ftp)", Kind: KindURL},
		{Token: "ssh", Label: "Secure Shell (ssh)", Kind: KindURL},
		{Token: "pdf", Label: "Portable Doc Format (pdf)", Kind: KindType},
		{Token: "docx", Label: "Word Document (docx)", Kind: KindType},
		{Token: "xlsx", Label: "Excel Spreadsheet (xlsx)", Kind: KindType},
		{Token: "pptx", Label: "PowerPoint Presentation (pptx)", Kind: KindType},
		{Token: "txt", Label: "Plain Text (txt)", Kind: KindType},
		{Token: "md", Label: "Markdown (md)", Kind: KindType},
		{Token: "csv", Label: "Comma Separated Values (csv)", Kind: KindType},
		{Token: "json", Label: "JSON Document (json)", Kind: KindType},
	}
}

// Registry is an ordered, read-only table of items keyed by token.
type Registry struct {
	order   []Item
	byToken map[string]Item
}

// NewRegistry builds a registry from the given items. Tokens are normalised
// to lower case. Duplicate tokens or labels are rejected because labels are
// used as keys when reading the dialog result back.
func NewRegistry(list []Item) (*Registry, error) {
	r := &Registry{
		order:   make([]Item, 0, len(list)),
		byToken: make(map[string]Item, len(list)),
	}
	labels := make(map[string]string, len(list))

	for idx, item := range list {
		item.Token = strings.ToLower(strings.TrimSpace(item.Token))
		item.Label = strings.TrimSpace(item.Label)
		field := fmt.Sprintf("items[%d]", idx)

		if item.Token == "" {
			return nil, apperrors.NewValidationError(field, "token is required", nil)
		}
		if strings.Contains(item.Token, ",") {
			return nil, apperrors.NewValidationError(field, fmt.Sprintf("token %q must not contain a comma", item.Token), nil)
		}
		if item.Label == "" {
			return nil, apperrors.NewValidationError(field, fmt.Sprintf("label is required for %q", item.Token), nil)
		}
		if item.Kind != KindURL && item.Kind != KindType {
			return nil, apperrors.NewValidationError(field, fmt.Sprintf("unknown kind %q for %q", item.Kind, item.Token), nil)
		}
		if _, dup := r.byToken[item.Token]; dup {
			return nil, apperrors.NewValidationError(field, fmt.Sprintf("duplicate token %q", item.Token), nil)
		}
		if other, dup := labels[item.Label]; dup {
			return nil, apperrors.NewValidationError(field, fmt.Sprintf("label %q already used by %q", item.Label, other), nil)
		}

		labels[item.Label] = item.Token
		r.byToken[item.Token] = item
		r.order = append(r.order, item)
	}

	return r, nil
}

// Default returns the registry of built-in items.
func Default() *Registry {
	reg, err := NewRegistry(Builtin())
	if err != nil {
		panic(err)
	}
	return reg
}

// Extend returns a new registry with extra items appended after the existing ones.
func (r *Registry) Extend(extra []Item) (*Registry, error) {
	if len(extra) == 0 {
		return r, nil
	}
	combined := append(r.All(), extra...)
	return NewRegistry(combined)
}

// Lookup finds an item by token (case-insensitive).
func (r *Registry) Lookup(token string) (Item, bool) {
	item, ok := r.byToken[strings.ToLower(strings.TrimSpace(token))]
	return item, ok
}

// All returns a copy of every item in registry order.
func (r *Registry) All() []Item {
	out := make([]Item, len(r.order))
	copy(out, r.order)
	return out
}

// Tokens returns every token in registry order.
func (r *Registry) Tokens() []string {
	out := make([]string, 0, len(r.order))
	for _, item := range r.order {
		out = append(out, item.Token)
	}
	return out
}
