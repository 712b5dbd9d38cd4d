package dialog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/alexisbeaulieu97/defaultapps/internal/execx"
	"github.com/alexisbeaulieu97/defaultapps/internal/logger"
)

// Renderer shows a document to the user and returns the raw result.
// An error means no result could be obtained and the run cannot continue.
type Renderer interface {
	Render(ctx context.Context, doc *Document) (RawResult, error)
}

// WriteFile writes doc to a uniquely named file in dir. The returned cleanup
// removes it.
func WriteFile(fs afero.Fs, doc *Document, dir string) (string, func(), error) {
	data, err := doc.Marshal()
	if err != nil {
		return "", nil, fmt.Errorf("encode dialog document: %w", err)
	}

	if dir == "" {
		dir = os.TempDir()
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create document directory: %w", err)
	}

	path := filepath.Join(dir, "defaultapps-"+uuid.NewString()+".json")
	// The renderer runs as the console user, so the file must be world readable.
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return "", nil, fmt.Errorf("write dialog document: %w", err)
	}

	cleanup := func() { _ = fs.Remove(path) }
	return path, cleanup, nil
}

// SwiftDialog renders documents with the swiftDialog binary.
type SwiftDialog struct {
	Binary string
	Runner execx.Runner
	Fs     afero.Fs
	Dir    string
	Log    *logger.Logger
}

var _ Renderer = (*SwiftDialog)(nil)

// Render writes the document, runs the binary against it, and returns its
// JSON output together with the exit code.
func (s *SwiftDialog) Render(ctx context.Context, doc *Document) (RawResult, error) {
	path, cleanup, err := WriteFile(s.Fs, doc, s.Dir)
	if err != nil {
		return RawResult{}, err
	}
	defer cleanup()

	s.Log.WithFields(map[string]any{"document": path, "fields": len(doc.SelectItems)}).Info("showing dialog")

	res, err := s.Runner.Run(ctx, s.Binary, "--jsonfile", path, "--json")
	if err != nil {
		// A process that ran and exited non-zero still produced a result.
		if execx.IsTimeout(err) || res.ExitCode <= 0 {
			return RawResult{}, err
		}
	}

	s.Log.With("exit_code", res.ExitCode).Debug("dialog closed")
	return RawResult{Output: []byte(res.Stdout), ExitCode: res.ExitCode}, nil
}
