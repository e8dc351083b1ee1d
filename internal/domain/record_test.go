package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s)

	s, err = ParseStatus(" Archived ")
	require.NoError(t, err)
	assert.Equal(t, StatusArchived, s)

	_, err = ParseStatus("deleted")
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestRecord_Validate(t *testing.T) {
	ok := Record{ID: "1", Name: "deploy", Status: StatusPaused}
	assert.NoError(t, ok.Validate())

	tests := []struct {
		name string
		rec  Record
	}{
		{"missing id", Record{Name: "x"}},
		{"blank name", Record{ID: "1", Name: "  "}},
		{"negative priority", Record{ID: "1", Name: "x", Priority: -1}},
		{"bad status", Record{ID: "1", Name: "x", Status: "gone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.rec.Validate(), ErrInvalidRecord)
		})
	}
}

func TestRecord_Helpers(t *testing.T) {
	r := Record{Status: StatusArchived, Tags: []string{"x", "y"}}
	assert.True(t, r.Archived())
	assert.Equal(t, "x, y", r.TagList())
}
