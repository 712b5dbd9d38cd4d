package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("defaultapps.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "defaultapps.yaml", parseErr.Source)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "defaultapps.yaml:12")
}

func TestParseErrorWithoutLine(t *testing.T) {
	t.Parallel()

	err := NewParseError("dialog output", 0, stdErrors.New("invalid character"))
	require.Equal(t, "parse error: dialog output: invalid character", err.Error())
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("selection", "no known items selected", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "selection", validationErr.Field)
	require.Equal(t, "validation error: selection: no known items selected", err.Error())
}

func TestExecutionErrorIncludesCommand(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("exit status 1")
	err := NewExecutionError("utiluti", underlying)

	var executionErr *ExecutionError
	require.ErrorAs(t, err, &executionErr)
	require.Equal(t, "utiluti", executionErr.Command)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestDependencyErrorIncludesBinary(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("not installed")
	err := NewDependencyError("/usr/local/bin/dialog", underlying)

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	require.Equal(t, "/usr/local/bin/dialog", depErr.Binary)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "not installed")
}

func TestNilErrorsRenderEmpty(t *testing.T) {
	t.Parallel()

	var parseErr *ParseError
	var validationErr *ValidationError
	var executionErr *ExecutionError
	var depErr *DependencyError

	require.Empty(t, parseErr.Error())
	require.Empty(t, validationErr.Error())
	require.Empty(t, executionErr.Error())
	require.Empty(t, depErr.Error())
	require.Nil(t, depErr.Unwrap())
}
