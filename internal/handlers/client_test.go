package handlers

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/defaultapps/internal/items"
	"github.com/alexisbeaulieu97/defaultapps/internal/logger"
	"github.com/alexisbeaulieu97/defaultapps/internal/model"
	"github.com/alexisbeaulieu97/defaultapps/internal/testutil"
)

const (
	utiluti = "/usr/local/bin/utiluti"
	mdls    = "/usr/bin/mdls"
)

func item(t *testing.T, token string) items.Item {
	t.Helper()
	it, ok := items.Default().Lookup(token)
	require.True(t, ok)
	return it
}

func appFs(t *testing.T, bundles ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, b := range bundles {
		require.NoError(t, fs.MkdirAll(b, 0o755))
	}
	return fs
}

func newClient(t *testing.T, runner *testutil.FakeRunner, fs afero.Fs, dryRun bool) (*Client, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Level: "debug", Writer: buf})
	require.NoError(t, err)
	return NewClient(runner, fs, Options{DryRun: dryRun}, log), buf
}

func TestQueryURLScheme(t *testing.T) {
	t.Parallel()

	runner := testutil.NewFakeRunner().
		On(utiluti+" url list https", "/Applications/Firefox.app\n/Users/jappleseed/Applications/Arc.app\n/System/Volumes/Preboot/Cryptexes/App/System/Applications/Safari.app").
		On(utiluti+" url https", "/Applications/Firefox.app")

	client, _ := newClient(t, runner, afero.NewMemMapFs(), false)
	field := client.Query(context.Background(), item(t, "https"))

	require.Equal(t, "https", field.Item.Token)
	require.Equal(t, []string{"Firefox", "Safari"}, field.Candidates)
	require.Equal(t, "Firefox", field.Current)
	require.True(t, field.HasCurrent())
}

func TestQueryFileTypeResolvesUTIFirst(t *testing.T) {
	t.Parallel()

	runner := testutil.NewFakeRunner().
		On(utiluti+" get-uti pdf", "com.adobe.pdf").
		On(utiluti+" type list com.adobe.pdf", "/System/Applications/Preview.app\n/Applications/Adobe Acrobat Reader.app").
		On(utiluti+" type com.adobe.pdf", "/System/Applications/Preview.app")

	client, _ := newClient(t, runner, afero.NewMemMapFs(), false)
	field := client.Query(context.Background(), item(t, "pdf"))

	require.Equal(t, []string{"Preview", "Adobe Acrobat Reader"}, field.Candidates)
	require.Equal(t, "Preview", field.Current)
	require.Equal(t, utiluti+" get-uti pdf", runner.Calls()[0])
}

func TestQueryMissingCandidatesDegradesField(t *testing.T) {
	t.Parallel()

	t.Run("uti lookup fails", func(t *testing.T) {
		t.Parallel()

		runner := testutil.NewFakeRunner().Fail(utiluti+" get-uti docx", 1, "unknown extension")
		client, buf := newClient(t, runner, afero.NewMemMapFs(), false)

		field := client.Query(context.Background(), item(t, "docx"))
		require.Empty(t, field.Candidates)
		require.NotNil(t, field.Candidates)
		require.False(t, field.HasCurrent())
		require.Len(t, runner.Calls(), 1)
		require.Contains(t, buf.String(), "could not resolve type identifier")
	})

	t.Run("dynamic uti", func(t *testing.T) {
		t.Parallel()

		runner := testutil.NewFakeRunner().On(utiluti+" get-uti docx", "dyn.ah62d4rv4ge81e5pe")
		client, _ := newClient(t, runner, afero.NewMemMapFs(), false)

		field := client.Query(context.Background(), item(t, "docx"))
		require.Empty(t, field.Candidates)
		require.False(t, field.HasCurrent())
	})

	t.Run("no default assigned", func(t *testing.T) {
		t.Parallel()

		runner := testutil.NewFakeRunner().
			On(utiluti+" url list mailto", "/System/Applications/Mail.app").
			On(utiluti+" url mailto", "<no default app found>")
		client, buf := newClient(t, runner, afero.NewMemMapFs(), false)

		field := client.Query(context.Background(), item(t, "mailto"))
		require.Equal(t, []string{"Mail"}, field.Candidates)
		require.False(t, field.HasCurrent())
		require.Contains(t, buf.String(), "no current default found")
	})
}

func TestApplySkipsEmptySelection(t *testing.T) {
	t.Parallel()

	for _, choice := range []string{"", "  ", "null", "(null)"} {
		runner := testutil.NewFakeRunner()
		client, _ := newClient(t, runner, afero.NewMemMapFs(), false)

		res := client.Apply(context.Background(), item(t, "pdf"), choice)
		require.Equal(t, model.StatusSkipped, res.Status)
		require.Empty(t, res.Application)
		require.Empty(t, runner.Calls())
	}
}

func TestApplyURLSchemeIsIdempotent(t *testing.T) {
	t.Parallel()

	runner := testutil.NewFakeRunner().
		On(mdls+" -name kMDItemCFBundleIdentifier -raw /Applications/Firefox.app", "org.mozilla.firefox").
		On(utiluti+" url set https org.mozilla.firefox", "set org.mozilla.firefox for https")
	client, _ := newClient(t, runner, appFs(t, "/Applications/Firefox.app"), false)

	for i := 0; i < 2; i++ {
		res := client.Apply(context.Background(), item(t, "https"), "Firefox")
		require.Equal(t, model.StatusApplied, res.Status)
		require.NoError(t, res.Error)
		require.Equal(t, "org.mozilla.firefox", res.BundleID)
	}
	require.Len(t, runner.CallsWithPrefix(utiluti+" url set"), 2)
}

func TestApplyFileTypeBindsUTI(t *testing.T) {
	t.Parallel()

	runner := testutil.NewFakeRunner().
		On(mdls+" -name kMDItemCFBundleIdentifier -raw /System/Applications/TextEdit.app", "com.apple.TextEdit").
		On(utiluti+" get-uti txt", "public.plain-text").
		On(utiluti+" type set public.plain-text com.apple.TextEdit", "")
	client, _ := newClient(t, runner, appFs(t, "/System/Applications/TextEdit.app"), false)

	res := client.Apply(context.Background(), item(t, "txt"), "TextEdit")
	require.Equal(t, model.StatusApplied, res.Status)
	require.Equal(t, []string{
		mdls + " -name kMDItemCFBundleIdentifier -raw /System/Applications/TextEdit.app",
		utiluti + " get-uti txt",
		utiluti + " type set public.plain-text com.apple.TextEdit",
	}, runner.Calls())
}

func TestApplyFailures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		token  string
		choice string
		fs     []string
		setup  func(r *testutil.FakeRunner)
		msg    string
	}{
		{
			name:   "application missing",
			token:  "xlsx",
			choice: "Numbers",
			setup:  func(r *testutil.FakeRunner) {},
			msg:    "application not found",
		},
		{
			name:   "bundle id missing",
			token:  "xlsx",
			choice: "Numbers",
			fs:     []string{"/Applications/Numbers.app"},
			setup: func(r *testutil.FakeRunner) {
				r.On(mdls+" -name kMDItemCFBundleIdentifier -raw /Applications/Numbers.app", "(null)")
			},
			msg: "could not resolve bundle identifier",
		},
		{
			name:   "uti lookup fails at apply time",
			token:  "xlsx",
			choice: "Numbers",
			fs:     []string{"/Applications/Numbers.app"},
			setup: func(r *testutil.FakeRunner) {
				r.On(mdls+" -name kMDItemCFBundleIdentifier -raw /Applications/Numbers.app", "com.apple.iWork.Numbers")
				r.Fail(utiluti+" get-uti xlsx", 1, "")
			},
			msg: "could not resolve type identifier",
		},
		{
			name:   "set command fails",
			token:  "mailto",
			choice: "Mail",
			fs:     []string{"/System/Applications/Mail.app"},
			setup: func(r *testutil.FakeRunner) {
				r.On(mdls+" -name kMDItemCFBundleIdentifier -raw /System/Applications/Mail.app", "com.apple.mail")
				r.Fail(utiluti+" url set mailto com.apple.mail", 1, "cannot set handler")
			},
			msg: "setting default handler failed",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			runner := testutil.NewFakeRunner()
			tc.setup(runner)
			client, _ := newClient(t, runner, appFs(t, tc.fs...), false)

			res := client.Apply(context.Background(), item(t, tc.token), tc.choice)
			require.Equal(t, model.StatusFailed, res.Status)
			require.Equal(t, tc.msg, res.Message)
			require.Error(t, res.Error)
		})
	}
}

func TestApplyDryRunDoesNotSet(t *testing.T) {
	t.Parallel()

	runner := testutil.NewFakeRunner().
		On(mdls+" -name kMDItemCFBundleIdentifier -raw /Applications/Firefox.app", "org.mozilla.firefox")
	client, _ := newClient(t, runner, appFs(t, "/Applications/Firefox.app"), true)

	res := client.Apply(context.Background(), item(t, "https"), "Firefox")
	require.Equal(t, model.StatusPlanned, res.Status)
	require.Empty(t, runner.CallsWithPrefix(utiluti))
}
