/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeConstants(t *testing.T) {
	codes := []int{Success, GeneralError, ConfigError, ValidationError, FileSystemError, DataError, PermissionError, UsageError, UnsupportedFormat}
	for i, code := range codes {
		assert.Equal(t, i, code)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{ConfigError, "Configuration error"},
		{ValidationError, "Validation error"},
		{FileSystemError, "File system error"},
		{DataError, "Data error"},
		{PermissionError, "Permission error"},
		{UsageError, "Usage error"},
		{UnsupportedFormat, "Unsupported format"},
		{99, "Unknown error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, String(tt.code))
	}
}

func TestOf(t *testing.T) {
	base := errors.New("boom")

	assert.Equal(t, Success, Of(nil))
	assert.Equal(t, GeneralError, Of(base))
	assert.Equal(t, ConfigError, Of(Wrap(ConfigError, base)))
	assert.Equal(t, DataError, Of(fmt.Errorf("loading: %w", Wrap(DataError, base))))
	assert.Equal(t, UsageError, Of(Errorf(UsageError, "bad flag %q", "x")))
	assert.Nil(t, Wrap(ConfigError, nil))
}

func TestErrorMessage(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(FileSystemError, base)
	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "Validation error", (&Error{Code: ValidationError}).Error())
}
