package diff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinesIdentical(t *testing.T) {
	t.Parallel()

	in := []byte("renderer: swiftdialog\nselection: pdf\n")
	require.Empty(t, Lines(in, in, "defaults", "effective", true))
}

func TestLines(t *testing.T) {
	t.Parallel()

	from := []byte("renderer: swiftdialog\nselection: \"\"\ndry_run: false\n")
	to := []byte("renderer: swiftdialog\nselection: docs-only\ndry_run: false\n")

	tests := []struct {
		name     string
		context  bool
		contains []string
		excludes []string
	}{
		{
			name:     "changes only",
			contains: []string{"--- defaults", "+++ effective", "-selection: \"\"", "+selection: docs-only"},
			excludes: []string{" renderer: swiftdialog"},
		},
		{
			name:     "with context",
			context:  true,
			contains: []string{" renderer: swiftdialog", " dry_run: false", "+selection: docs-only"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := Lines(from, to, "defaults", "effective", tt.context)
			for _, want := range tt.contains {
				require.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				require.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestLinesWithoutTrailingNewline(t *testing.T) {
	t.Parallel()

	out := Lines([]byte("a\nb"), []byte("a\nc"), "x", "y", false)
	require.Contains(t, out, "-b\n")
	require.Contains(t, out, "+c\n")
}
