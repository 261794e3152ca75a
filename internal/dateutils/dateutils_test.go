package dateutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		label    string
		expected string
	}{
		{"2025-03-15", "2025-03-15"},
		{"15.03.2025", "2025-03-15"},
		{"2025-03", "2025-03-01"},
		{"03.2025", "2025-03-01"},
		{"5.3.2025", "2025-03-05"},
		{"2025/03", "2025-03-01"},
		{"03/2025", "2025-03-01"},
		{"March 2025", "2025-03-01"},
		{"  Mar   2025 ", "2025-03-01"},
		{"02 Jan 2026", "2026-01-02"},
	}

	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			got, err := ParsePeriod(tc.label)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ToISODate(got))
		})
	}
}

func TestParsePeriod_Invalid(t *testing.T) {
	for _, label := range []string{"", "Q1", "2025-W03", "13.2025"} {
		_, err := ParsePeriod(label)
		assert.Error(t, err, label)
	}
}

func TestParsePeriods(t *testing.T) {
	parsed, ok := ParsePeriods([]string{"01.2025", "12.2024"})
	require.True(t, ok)
	assert.True(t, parsed["12.2024"].Before(parsed["01.2025"]))

	_, ok = ParsePeriods([]string{"01.2025", "spring"})
	assert.False(t, ok)
}

func TestCleanDateString(t *testing.T) {
	assert.Equal(t, "Jan 2025", CleanDateString("\tJan \n 2025 "))
}
