// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and classification helpers

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/postgen/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "marker_not_found",
			code:    errors.ErrMarkerNotFound,
			message: "marker missing",
			wantStr: "[MARKER_NOT_FOUND] marker missing",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "invalid configuration",
			wantStr: "[INVALID_INPUT] invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}
			if err.Details == nil {
				t.Error("New() details should be initialized")
			}
			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrTemplateDrift, "expected %s at %s", "file", "config/asgi.py")
	if err.Message != "expected file at config/asgi.py" {
		t.Errorf("Newf() message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrToolFailed, "docker build failed")

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[TOOL_FAILED] docker build failed: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrap(nil, errors.ErrInternal, "internal error")
		if err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})

	t.Run("wrapf_formats_message", func(t *testing.T) {
		err := errors.Wrapf(baseErr, errors.ErrFileRemove, "removing %s", "bin")
		if err.Message != "removing bin" {
			t.Errorf("Wrapf() message = %q", err.Message)
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrFileNotFound, "not found").
		WithDetail("path", "/test/path").
		WithDetail("feature", "celery")

	if err.Details["path"] != "/test/path" {
		t.Errorf("WithDetail() path = %v, want %v", err.Details["path"], "/test/path")
	}
	if err.Details["feature"] != "celery" {
		t.Errorf("WithDetail() feature = %v, want %v", err.Details["feature"], "celery")
	}
	if got := errors.GetErrorDetails(err)["feature"]; got != "celery" {
		t.Errorf("GetErrorDetails() feature = %v", got)
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrTemplateDrift, "error 1")
	err2 := errors.New(errors.ErrTemplateDrift, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	t.Run("same_code_is_equal", func(t *testing.T) {
		if !err1.Is(err2) {
			t.Error("Is() should return true for same code")
		}
	})

	t.Run("different_code_not_equal", func(t *testing.T) {
		if err1.Is(err3) {
			t.Error("Is() should return false for different codes")
		}
	})

	t.Run("works_with_errors_Is", func(t *testing.T) {
		if !stderrors.Is(err1, err2) {
			t.Error("errors.Is() should work with PostgenError")
		}
	})
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{"matching_code", errors.New(errors.ErrLintFailed, "lint"), errors.ErrLintFailed, true},
		{"different_code", errors.New(errors.ErrLintFailed, "lint"), errors.ErrInternal, false},
		{"wrapped_error", errors.Wrap(stderrors.New("base"), errors.ErrFileAccess, "denied"), errors.ErrFileAccess, true},
		{"standard_error", stderrors.New("standard error"), errors.ErrFileAccess, false},
		{"nil_error", nil, errors.ErrFileAccess, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(errors.New(errors.ErrNoSecureRandom, "x")); got != errors.ErrNoSecureRandom {
		t.Errorf("GetErrorCode() = %v", got)
	}
	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v, want UNKNOWN", got)
	}
	if got := errors.GetErrorCode(nil); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(nil) = %v, want UNKNOWN", got)
	}
}

func TestIsDrift(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New(errors.ErrTemplateDrift, "x"), true},
		{errors.New(errors.ErrMarkerNotFound, "x"), true},
		{errors.Wrap(errors.New(errors.ErrFileNotFound, "x"), errors.ErrFileNotFound, "y"), true},
		{errors.New(errors.ErrToolFailed, "x"), false},
		{stderrors.New("plain"), false},
	}

	for _, tt := range tests {
		if got := errors.IsDrift(tt.err); got != tt.want {
			t.Errorf("IsDrift(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	fileErr := errors.Wrap(rootCause, errors.ErrFileAccess, "cannot read file")
	configErr := errors.Wrap(fileErr, errors.ErrConfigLoad, "failed to load config")

	if !errors.IsErrorCode(configErr, errors.ErrConfigLoad) {
		t.Error("Top level should have ErrConfigLoad code")
	}

	var pgErr *errors.PostgenError
	if stderrors.As(configErr.Unwrap(), &pgErr) {
		if pgErr.Code != errors.ErrFileAccess {
			t.Error("Middle error should have ErrFileAccess code")
		}
	} else {
		t.Error("middle error should be a PostgenError")
	}

	if !stderrors.Is(configErr, rootCause) {
		t.Error("Should find root cause with errors.Is")
	}
}
