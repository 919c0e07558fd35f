// FILE: lixenwraith/recorder/utility_test.go
package recorder

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{" detail ", LevelDetail, false},
		{"normal", LevelNormal, false},
		{"info", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, level)
				assert.Equal(t, level, mustParse(t, level.String()))
			}
		})
	}
}

func mustParse(t *testing.T, s string) Level {
	t.Helper()
	lv, err := ParseLevel(s)
	assert.NoError(t, err)
	return lv
}

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		input     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{"key=value", "key", "value", false},
		{" key = value ", "key", "value", false},
		{"key=value=with=equals", "key", "value=with=equals", false},
		{"noequals", "", "", true},
		{"=value", "", "", true},
		{"key=", "key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, value, err := parseKeyValue(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantKey, key)
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("test error: %s", "details")
	assert.Error(t, err)
	assert.Equal(t, "recorder: test error: details", err.Error())

	// Already prefixed
	err = fmtErrorf("recorder: already prefixed")
	assert.Equal(t, "recorder: already prefixed", err.Error())
}

func TestCombineErrors(t *testing.T) {
	e1 := errors.New("first")
	e2 := errors.New("second")

	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, e1, combineErrors(e1, nil))
	assert.Equal(t, e2, combineErrors(nil, e2))

	both := combineErrors(e1, e2)
	assert.Contains(t, both.Error(), "first")
	assert.Contains(t, both.Error(), "second")
}

func TestValidateBaseName(t *testing.T) {
	for _, name := range []string{"app", "my-service", "a.b"} {
		assert.NoError(t, validateBaseName(name), name)
	}
	for _, name := range []string{"", "  ", "a/b", `a\b`, ".", ".."} {
		err := validateBaseName(name)
		assert.ErrorIs(t, err, ErrInvalidBaseName, name)
	}
}

func TestSameDay(t *testing.T) {
	base := time.Date(2024, 3, 10, 23, 59, 0, 0, time.Local)
	assert.True(t, sameDay(base, base.Add(30*time.Second)))
	assert.False(t, sameDay(base, base.Add(2*time.Minute)))
	assert.False(t, sameDay(base, base.AddDate(1, 0, 0)))
}
