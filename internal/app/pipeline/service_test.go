package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/defaultapps/internal/deps"
	"github.com/alexisbeaulieu97/defaultapps/internal/dialog"
	"github.com/alexisbeaulieu97/defaultapps/internal/handlers"
	"github.com/alexisbeaulieu97/defaultapps/internal/items"
	"github.com/alexisbeaulieu97/defaultapps/internal/model"
	"github.com/alexisbeaulieu97/defaultapps/internal/preset"
	"github.com/alexisbeaulieu97/defaultapps/internal/sysinfo"
	"github.com/alexisbeaulieu97/defaultapps/internal/testutil"
	apperrors "github.com/alexisbeaulieu97/defaultapps/pkg/errors"
)

const (
	utiluti = "/usr/local/bin/utiluti"
	mdls    = "/usr/bin/mdls"

	wordUTI = "org.openxmlformats.wordprocessingml.document"
)

type fakeRenderer struct {
	raw   dialog.RawResult
	err   error
	docs  []*dialog.Document
	calls int
}

func (f *fakeRenderer) Render(_ context.Context, doc *dialog.Document) (dialog.RawResult, error) {
	f.calls++
	f.docs = append(f.docs, doc)
	return f.raw, f.err
}

type fakeDeps struct {
	err  error
	seen []deps.Dependency
}

func (f *fakeDeps) EnsureAll(_ context.Context, list []deps.Dependency) error {
	f.seen = append(f.seen, list...)
	return f.err
}

// baseRunner answers the queries for https, pdf and docx. docx has no
// registered applications.
func baseRunner() *testutil.FakeRunner {
	return testutil.NewFakeRunner().
		On(utiluti+" url list https", "/Applications/Firefox.app\n/Applications/Safari.app").
		On(utiluti+" url https", "/Applications/Safari.app").
		On(utiluti+" get-uti pdf", "com.adobe.pdf").
		On(utiluti+" type list com.adobe.pdf", "/System/Applications/Preview.app\n/Applications/Adobe Acrobat Reader.app").
		On(utiluti+" type com.adobe.pdf", "/System/Applications/Preview.app").
		On(utiluti+" get-uti docx", wordUTI).
		On(utiluti+" type list "+wordUTI, "").
		On(utiluti+" type "+wordUTI, "<no default app found>").
		On(mdls+" -name kMDItemCFBundleIdentifier -raw /Applications/Firefox.app", "org.mozilla.firefox").
		On(mdls+" -name kMDItemCFBundleIdentifier -raw /Applications/Adobe Acrobat Reader.app", "com.adobe.Reader").
		On(utiluti+" url set https org.mozilla.firefox", "set https to org.mozilla.firefox")
}

func newService(t *testing.T, runner *testutil.FakeRunner, renderer dialog.Renderer, checker DependencyChecker) *Service {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, app := range []string{"/Applications/Firefox.app", "/Applications/Safari.app", "/Applications/Adobe Acrobat Reader.app", "/System/Applications/Preview.app"} {
		require.NoError(t, fs.MkdirAll(app, 0o755))
	}

	reg := items.Default()
	return NewService(Options{
		Resolver: preset.NewResolver(reg, nil, nil),
		Handlers: handlers.NewClient(runner, fs, handlers.Options{}, nil),
		Renderer: renderer,
		Deps:     checker,
	})
}

func TestRunAppliesChoicesInSelectionOrder(t *testing.T) {
	t.Parallel()

	runner := baseRunner()
	renderer := &fakeRenderer{raw: dialog.RawResult{Output: []byte(`{
		"Web Browser (https)": {"selectedValue": "Firefox"},
		"Portable Doc Format (pdf)": "Adobe Acrobat Reader"
	}`)}}
	svc := newService(t, runner, renderer, nil)

	var streamed []string
	outcome, err := svc.Run(context.Background(), Request{
		Selection: "https,pdf",
		OnResult:  func(r model.ApplyResult) { streamed = append(streamed, r.Token) },
	})
	require.NoError(t, err)
	require.False(t, outcome.Cancelled)
	require.Len(t, outcome.Results, 2)

	require.Equal(t, "https", outcome.Results[0].Token)
	require.Equal(t, model.StatusApplied, outcome.Results[0].Status)
	require.Equal(t, "org.mozilla.firefox", outcome.Results[0].BundleID)

	// type set was never registered, so the second bind fails.
	require.Equal(t, "pdf", outcome.Results[1].Token)
	require.Equal(t, model.StatusFailed, outcome.Results[1].Status)
	require.Equal(t, "setting default handler failed", outcome.Results[1].Message)

	require.Equal(t, []string{"https", "pdf"}, streamed)
	require.Equal(t, []string{utiluti + " type set com.adobe.pdf com.adobe.Reader"}, runner.CallsWithPrefix(utiluti+" type set"))
}

func TestRunCancelAppliesNothing(t *testing.T) {
	t.Parallel()

	for _, code := range []int{dialog.ExitButton2, dialog.ExitQuitKey} {
		runner := baseRunner()
		renderer := &fakeRenderer{raw: dialog.RawResult{Output: []byte(`{"Web Browser (https)": "Firefox"}`), ExitCode: code}}
		svc := newService(t, runner, renderer, nil)

		outcome, err := svc.Run(context.Background(), Request{Selection: "browser-only"})
		require.NoError(t, err)
		require.True(t, outcome.Cancelled)
		require.Empty(t, outcome.Results)
		require.Empty(t, runner.CallsWithPrefix(mdls))
		require.Empty(t, runner.CallsWithPrefix(utiluti+" url set"))
	}
}

func TestRunEmptyChoiceIsSkipped(t *testing.T) {
	t.Parallel()

	runner := baseRunner()
	renderer := &fakeRenderer{raw: dialog.RawResult{Output: []byte(`{
		"Web Browser (https)": {"selectedValue": ""},
		"Portable Doc Format (pdf)": null
	}`)}}
	svc := newService(t, runner, renderer, nil)

	outcome, err := svc.Run(context.Background(), Request{Selection: "https,pdf"})
	require.NoError(t, err)
	require.Len(t, outcome.Results, 2)
	for _, res := range outcome.Results {
		require.Equal(t, model.StatusSkipped, res.Status, res.Token)
	}
	require.Empty(t, runner.CallsWithPrefix(mdls))
}

func TestRunItemWithoutCandidatesStillShown(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{raw: dialog.RawResult{Output: []byte(`{}`)}}
	svc := newService(t, baseRunner(), renderer, nil)

	outcome, err := svc.Run(context.Background(), Request{Selection: "docx,pdf"})
	require.NoError(t, err)

	require.Len(t, renderer.docs, 1)
	doc := renderer.docs[0]
	require.Equal(t, []string{"docx", "pdf"}, doc.Tokens())
	require.Empty(t, doc.SelectItems[0].Values)
	require.Empty(t, doc.SelectItems[0].Default)
	require.Equal(t, "Preview", doc.SelectItems[1].Default)

	require.Equal(t, model.StatusSkipped, outcome.Results[0].Status)
}

func TestRunUnparseableOutputSkipsEverything(t *testing.T) {
	t.Parallel()

	runner := baseRunner()
	renderer := &fakeRenderer{raw: dialog.RawResult{Output: []byte("dialog crashed")}}
	svc := newService(t, runner, renderer, nil)

	outcome, err := svc.Run(context.Background(), Request{Selection: "https"})
	require.NoError(t, err)
	require.Len(t, outcome.Results, 1)
	require.Equal(t, model.StatusSkipped, outcome.Results[0].Status)
}

func TestRunEmptySelectionFailsBeforeSideEffects(t *testing.T) {
	t.Parallel()

	runner := baseRunner()
	renderer := &fakeRenderer{}
	checker := &fakeDeps{}
	svc := newService(t, runner, renderer, checker)

	_, err := svc.Run(context.Background(), Request{
		Selection:    "bogus, ,",
		Dependencies: []deps.Dependency{{Name: "dialog", Path: "/usr/local/bin/dialog"}},
	})
	require.Error(t, err)

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "selection", validationErr.Field)
	require.Empty(t, runner.Calls())
	require.Empty(t, checker.seen)
	require.Zero(t, renderer.calls)
}

func TestRunDependencyFailureIsFatal(t *testing.T) {
	t.Parallel()

	runner := baseRunner()
	renderer := &fakeRenderer{}
	checker := &fakeDeps{err: apperrors.NewDependencyError("/usr/local/bin/dialog", errors.New("not installed"))}
	svc := newService(t, runner, renderer, checker)

	_, err := svc.Run(context.Background(), Request{
		Selection:    "https",
		Dependencies: []deps.Dependency{{Name: "dialog", Path: "/usr/local/bin/dialog"}},
	})

	var depErr *apperrors.DependencyError
	require.ErrorAs(t, err, &depErr)
	require.Len(t, checker.seen, 1)
	require.Empty(t, runner.Calls())
	require.Zero(t, renderer.calls)
}

func TestRunRendererErrorIsFatal(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{err: apperrors.NewExecutionError("/usr/local/bin/dialog", context.DeadlineExceeded)}
	svc := newService(t, baseRunner(), renderer, nil)

	outcome, err := svc.Run(context.Background(), Request{Selection: "https"})
	require.Nil(t, outcome)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunExpandsHelpMessage(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{raw: dialog.RawResult{ExitCode: dialog.ExitButton2}}
	svc := newService(t, baseRunner(), renderer, nil)

	_, err := svc.Run(context.Background(), Request{
		Selection: "https",
		Header:    dialog.Header{Title: "Defaults", HelpMessage: "User: {{.ConsoleUser}} on {{.OSVersion}}"},
		Facts:     sysinfo.Facts{ConsoleUser: "jappleseed", OSVersion: "15.1"},
	})
	require.NoError(t, err)
	require.Equal(t, "User: jappleseed on 15.1", renderer.docs[0].HelpMessage)
}

func TestRunKeepsInvalidHelpTemplateVerbatim(t *testing.T) {
	t.Parallel()

	renderer := &fakeRenderer{raw: dialog.RawResult{ExitCode: dialog.ExitButton2}}
	svc := newService(t, baseRunner(), renderer, nil)

	_, err := svc.Run(context.Background(), Request{
		Selection: "https",
		Header:    dialog.Header{HelpMessage: "broken {{.Nope"},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(renderer.docs[0].HelpMessage, "broken"))
}

func TestQueryReturnsFieldsWithoutRendering(t *testing.T) {
	t.Parallel()

	runner := baseRunner()
	renderer := &fakeRenderer{}
	svc := newService(t, runner, renderer, nil)

	fields, err := svc.Query(context.Background(), "https,docx")
	require.NoError(t, err)
	require.Len(t, fields, 2)
	require.Equal(t, "Safari", fields[0].Current)
	require.False(t, fields[1].HasCurrent())
	require.Zero(t, renderer.calls)
	require.Empty(t, runner.CallsWithPrefix(utiluti+" url set"))
}
