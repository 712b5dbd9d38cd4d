package dialog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// noChange is the option value meaning "leave this handler alone".
const noChange = ""

// Console renders the document as a terminal form. It produces the same JSON
// shape swiftDialog does so Extract handles both.
type Console struct {
	In        io.Reader
	Out       io.Writer
	AltScreen bool

	// run executes the form; replaced in tests.
	run func(ctx context.Context, form *huh.Form) error
}

var _ Renderer = (*Console)(nil)

// NewConsole creates a console renderer on the given streams.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{In: in, Out: out}
}

var (
	consoleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	consoleMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Render shows one select per field with the current default pre-selected.
func (c *Console) Render(ctx context.Context, doc *Document) (RawResult, error) {
	choices := make([]string, len(doc.SelectItems))
	fields := make([]huh.Field, 0, len(doc.SelectItems)+1)

	description := doc.Message
	if doc.InfoBox != "" {
		description = fmt.Sprintf("%s\n%s", description, consoleMuted.Render(doc.InfoBox))
	}
	fields = append(fields, huh.NewNote().Title(consoleTitle.Render(doc.Title)).Description(description))

	for idx, item := range doc.SelectItems {
		choices[idx] = item.Default
		if len(item.Values) == 0 {
			fields = append(fields, huh.NewNote().
				Title(item.Title).
				Description(consoleMuted.Render("No applications found")))
			continue
		}
		fields = append(fields, huh.NewSelect[string]().
			Title(item.Title).
			Options(consoleOptions(item)...).
			Value(&choices[idx]))
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCharm())
	if c.In != nil {
		form = form.WithInput(c.In)
	}
	if c.Out != nil {
		form = form.WithOutput(c.Out)
	}
	if c.AltScreen {
		form = form.WithProgramOptions(tea.WithAltScreen())
	}

	run := c.run
	if run == nil {
		run = func(ctx context.Context, form *huh.Form) error { return form.RunWithContext(ctx) }
	}

	if err := run(ctx, form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return RawResult{ExitCode: ExitButton2}, nil
		}
		return RawResult{}, fmt.Errorf("console dialog: %w", err)
	}

	output, err := consoleOutput(doc, choices)
	if err != nil {
		return RawResult{}, err
	}
	return RawResult{Output: output}, nil
}

func consoleOptions(item SelectItem) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(item.Values)+1)
	options = append(options, huh.NewOption("(no change)", noChange))
	for _, value := range item.Values {
		label := value
		if value == item.Default {
			label = value + " (current)"
		}
		options = append(options, huh.NewOption(label, value))
	}
	return options
}

func consoleOutput(doc *Document, choices []string) ([]byte, error) {
	out := make(map[string]selectedValue, len(doc.SelectItems))
	for idx, item := range doc.SelectItems {
		out[item.Title] = selectedValue{SelectedValue: choices[idx]}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode console result: %w", err)
	}
	return data, nil
}
