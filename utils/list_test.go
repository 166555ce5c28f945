package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "Empty", raw: "", want: []string{}},
		{name: "Blank", raw: "   ", want: []string{}},
		{name: "JSONArray", raw: `["cleaning","driving"]`, want: []string{"cleaning", "driving"}},
		{name: "EmptyJSONArray", raw: `[]`, want: []string{}},
		{name: "CommaSeparated", raw: "cleaning, driving ,cooking", want: []string{"cleaning", "driving", "cooking"}},
		{name: "Single", raw: "cleaning", want: []string{"cleaning"}},
		{name: "DropsEmptyAndDuplicates", raw: `[" cleaning ","","cleaning","driving"]`, want: []string{"cleaning", "driving"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStringList(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("MalformedJSON", func(t *testing.T) {
		_, err := ParseStringList(`["cleaning",`)
		assert.ErrorIs(t, err, ErrMalformedList)
	})

	t.Run("NonStringElements", func(t *testing.T) {
		_, err := ParseStringList(`[1,2]`)
		assert.ErrorIs(t, err, ErrMalformedList)
	})
}

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, UniqueStrings([]string{"b", " a", "b ", "", "a"}))
	assert.Empty(t, UniqueStrings(nil))
	assert.NotNil(t, UniqueStrings(nil))
}
