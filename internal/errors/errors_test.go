package errors

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	_, cause := strconv.ParseFloat("x", 64)
	err := NewParseError("clean", "Periode", 3, "bukan-tanggal", cause)

	assert.Contains(t, err.Error(), "clean")
	assert.Contains(t, err.Error(), "row 3")
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("load: %w", err)
	var pe *ParseError
	assert.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, "Periode", pe.Column)
	assert.False(t, IsRecoverable(wrapped))
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"source not found", fmt.Errorf("geo: %w", ErrSourceNotFound), true},
		{"empty selection", ErrEmptySelection, true},
		{"column not found", fmt.Errorf("map: %w", NewColumnNotFoundError("geo", "beras_premium")), true},
		{"schema mismatch", ErrSchemaMismatch, false},
		{"invalid input", Invalid("n", "must be numeric"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRecoverable(tt.err))
		})
	}
}

func TestInvalid(t *testing.T) {
	err := Invalid("start", "cannot parse %q", "2024-13")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "start")
	assert.Contains(t, err.Error(), "2024-13")
}
