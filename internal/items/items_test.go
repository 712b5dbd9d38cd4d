package items

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/alexisbeaulieu97/defaultapps/pkg/errors"
)

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	reg := Default()
	require.Equal(t, []string{"https", "mailto", "ftp", "ssh", "pdf", "docx", "xlsx", "pptx", "txt", "md", "csv", "json"}, reg.Tokens())

	item, ok := reg.Lookup(" PDF ")
	require.True(t, ok)
	require.Equal(t, "Portable Doc Format (pdf)", item.Label)
	require.Equal(t, KindType, item.Kind)
	require.Equal(t, "pdf", item.LookupKey())

	_, ok = reg.Lookup("http")
	require.False(t, ok)
}

func TestNewRegistryRejectsInvalidItems(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		items []Item
		msg   string
	}{
		{
			name:  "duplicate token",
			items: []Item{{Token: "pdf", Label: "A", Kind: KindType}, {Token: "PDF", Label: "B", Kind: KindType}},
			msg:   "duplicate token",
		},
		{
			name:  "duplicate label",
			items: []Item{{Token: "http", Label: "Browser", Kind: KindURL}, {Token: "https", Label: "Browser", Kind: KindURL}},
			msg:   "already used",
		},
		{
			name:  "missing label",
			items: []Item{{Token: "pdf", Kind: KindType}},
			msg:   "label is required",
		},
		{
			name:  "unknown kind",
			items: []Item{{Token: "pdf", Label: "PDF", Kind: "mime"}},
			msg:   "unknown kind",
		},
		{
			name:  "comma in token",
			items: []Item{{Token: "a,b", Label: "AB", Kind: KindType}},
			msg:   "comma",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewRegistry(tc.items)
			var validationErr *apperrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Contains(t, validationErr.Message, tc.msg)
		})
	}
}

func TestExtendAppendsCustomItems(t *testing.T) {
	t.Parallel()

	reg, err := Default().Extend([]Item{{Token: "slack", Label: "Slack Links (slack)", Kind: KindURL}})
	require.NoError(t, err)

	tokens := reg.Tokens()
	require.Equal(t, "slack", tokens[len(tokens)-1])

	_, err = Default().Extend([]Item{{Token: "pdf2", Label: "Portable Doc Format (pdf)", Kind: KindType}})
	require.Error(t, err)
}

func TestLookupKeyOverride(t *testing.T) {
	t.Parallel()

	item := Item{Token: "markdown", Label: "Markdown", Kind: KindType, Key: "md"}
	require.Equal(t, "md", item.LookupKey())
}
