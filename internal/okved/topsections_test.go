package okved

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopSections_Table(t *testing.T) {
	table := TopSections()
	require.Len(t, table, 21)

	seenIDs := make(map[string]bool)
	seenCodes := make(map[string]string)
	for i, ts := range table {
		assert.Equal(t, string(rune('A'+i)), ts.ID, "table order")
		assert.NotEmpty(t, ts.Name)
		assert.NotEmpty(t, ts.Codes)
		assert.False(t, seenIDs[ts.ID], "duplicate id %s", ts.ID)
		seenIDs[ts.ID] = true

		for _, code := range ts.Codes {
			assert.Len(t, code, 2, "code %q is not zero-padded", code)
			owner, dup := seenCodes[code]
			assert.False(t, dup, "code %s in %s and %s", code, owner, ts.ID)
			seenCodes[code] = ts.ID
		}
	}
}

func TestTopSections_ReturnsCopy(t *testing.T) {
	table := TopSections()
	table[0].Codes[0] = "zz"
	table[0].Name = "changed"

	again := TopSections()
	assert.Equal(t, "01", again[0].Codes[0])
	assert.NotEqual(t, "changed", again[0].Name)
}

func TestLookupTopSection(t *testing.T) {
	ts, ok := LookupTopSection("D")
	require.True(t, ok)
	assert.Equal(t, []string{"35"}, ts.Codes)
	assert.Contains(t, ts.Name, "электрической энергией")

	ts.Codes[0] = "00"
	again, _ := LookupTopSection("D")
	assert.Equal(t, "35", again.Codes[0])

	_, ok = LookupTopSection("Z")
	assert.False(t, ok)
	_, ok = LookupTopSection("a")
	assert.False(t, ok)
}

func TestTopSectionOf(t *testing.T) {
	tests := []struct {
		code string
		want string
		ok   bool
	}{
		{"01", "A", true},
		{"01.11.1", "A", true},
		{"62.01", "J", true},
		{"99", "U", true},
		{"04", "", false},
		{"", "", false},
		{"1.2.3.4", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := TopSectionOf(tt.code)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
