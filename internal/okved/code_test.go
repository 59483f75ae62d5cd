package okved

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		level   Level
		main    string
		section string
		parent  string
	}{
		{"main", "01", LevelMain, "01", "", ""},
		{"section", "01.1", LevelSection, "01", "", "01"},
		{"two digit section", "01.11", LevelSection, "01", "", "01"},
		{"subsection", "01.11.1", LevelSubsection, "01", "01.11", "01.11"},
		{"empty", "", LevelInvalid, "", "", ""},
		{"four segments", "01.11.1.1", LevelInvalid, "", "", ""},
		{"trailing dot", "01.", LevelSection, "01", "", "01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseCode(tt.code)
			assert.Equal(t, tt.code, c.Raw)
			assert.Equal(t, tt.level, c.Level)
			assert.Equal(t, tt.main, c.Main)
			assert.Equal(t, tt.section, c.Section)
			assert.Equal(t, tt.parent, c.Parent())
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "main", LevelMain.String())
	assert.Equal(t, "section", LevelSection.String())
	assert.Equal(t, "subsection", LevelSubsection.String())
	assert.Equal(t, "invalid", LevelInvalid.String())
	assert.Equal(t, "invalid", Level(42).String())
}
