// Package dialog builds the swiftDialog JSON document for the handler
// selection form, renders it, and reads the user's choices back.
package dialog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/defaultapps/internal/handlers"
	apperrors "github.com/alexisbeaulieu97/defaultapps/pkg/errors"
)

// Header is the static presentation metadata of the dialog.
type Header struct {
	Title            string `json:"title"`
	Message          string `json:"message"`
	Icon             string `json:"icon,omitempty"`
	BannerImage      string `json:"bannerimage,omitempty"`
	InfoBox          string `json:"infobox,omitempty"`
	OverlayIcon      string `json:"overlayicon,omitempty"`
	OnTop            bool   `json:"ontop"`
	Moveable         bool   `json:"moveable"`
	HelpMessage      string `json:"helpmessage,omitempty"`
	HelpImage        string `json:"helpimage,omitempty"`
	Button1Text      string `json:"button1text"`
	Button2Text      string `json:"button2text"`
	InfoButtonText   string `json:"infobuttontext,omitempty"`
	InfoButtonAction string `json:"infobuttonaction,omitempty"`
	Width            string `json:"width,omitempty"`
	Height           string `json:"height,omitempty"`
}

// SelectItem is one drop-down in the form.
type SelectItem struct {
	Title    string   `json:"title"`
	Values   []string `json:"values"`
	Default  string   `json:"default,omitempty"`
	Required bool     `json:"required"`

	// Token links the field back to the selected item. Not sent to the renderer.
	Token string `json:"-"`
}

// Document is the complete renderer input.
type Document struct {
	Header
	SelectItems []SelectItem `json:"selectitems"`
}

// Build assembles the document from the queried fields, keeping their order.
// A known current default is pre-selected and added to the values when the
// candidate listing did not include it.
func Build(fields []handlers.Field, header Header) (*Document, error) {
	doc := &Document{Header: header, SelectItems: make([]SelectItem, 0, len(fields))}
	titles := make(map[string]string, len(fields))

	for idx, field := range fields {
		title := strings.TrimSpace(field.Item.Label)
		if title == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("selectitems[%d]", idx), fmt.Sprintf("item %q has no label", field.Item.Token), nil)
		}
		if other, dup := titles[title]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("selectitems[%d]", idx), fmt.Sprintf("label %q used by both %q and %q", title, other, field.Item.Token), nil)
		}
		titles[title] = field.Item.Token

		values := append([]string{}, field.Candidates...)
		if field.HasCurrent() && !contains(values, field.Current) {
			values = append(values, field.Current)
		}

		doc.SelectItems = append(doc.SelectItems, SelectItem{
			Title:   title,
			Values:  values,
			Default: field.Current,
			Token:   field.Item.Token,
		})
	}

	return doc, nil
}

// Marshal encodes the document in renderer field order.
func (d *Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Tokens returns the item tokens in field order.
func (d *Document) Tokens() []string {
	out := make([]string, 0, len(d.SelectItems))
	for _, item := range d.SelectItems {
		out = append(out, item.Token)
	}
	return out
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
