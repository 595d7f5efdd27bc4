package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisError_IsByKind(t *testing.T) {
	cases := []struct {
		name     string
		err      *AnalysisError
		sentinel error
	}{
		{"load", NewLoadError("a.py", errors.New("missing")), ErrLoad},
		{"syntax", NewSyntaxError("a.py", 3, 7), ErrSyntax},
		{"invalid node", NewInvalidNodeError("class_definition", "module", 1), ErrInvalidNode},
		{"unsupported", NewUnsupportedExpressionError("lambda", 4), ErrUnsupportedExpression},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.sentinel)
			for _, other := range []error{ErrLoad, ErrSyntax, ErrInvalidNode, ErrUnsupportedExpression} {
				if other != tc.sentinel {
					assert.NotErrorIs(t, wrapped, other)
				}
			}
		})
	}
}

func TestAnalysisError_Message(t *testing.T) {
	err := NewUnsupportedExpressionError("lambda", 12).WithFile("pkg/mod.py").WithClass("Foo")
	assert.Equal(t, "unsupported_expression in pkg/mod.py:12 (class Foo): node kind lambda", err.Error())
	assert.True(t, err.IsRecoverable())

	cause := errors.New("permission denied")
	load := NewLoadError("x.py", cause)
	assert.ErrorIs(t, load, cause)
	assert.Contains(t, load.Error(), "x.py")
	assert.False(t, load.IsRecoverable())
}

func TestParseFilterLevel(t *testing.T) {
	for in, want := range map[string]FilterLevel{
		"": LevelRaw, "raw": LevelRaw, "0": LevelRaw,
		"balanced": LevelBalanced, "1": LevelBalanced,
		"Pure": LevelPure, "2": LevelPure,
	} {
		got, err := ParseFilterLevel(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFilterLevel("strict")
	assert.Error(t, err)
}
