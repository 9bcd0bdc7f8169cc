package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.10001", "1.1"},
		{"0.0001", "0.0001"},
		{"2.0001", "2.0001"},
		{"2", "2.0"},
		{"0", "0.0"},
		{"1.0", "1.0"},
		{"0.1", "0.1"},
		{"1.23455", "1.2346"},
		{"1.23454", "1.2345"},
		{"0.00004", "0.0"},
		{"0.00005", "0.0001"},
		{"-4", "-4.0"},
		{"-1.23455", "-1.2346"},
		{"123456789.987654321", "123456789.9877"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatAmount(decimal.RequireFromString(tc.in)))
		})
	}
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" 150.5 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("150.5")))

	d, err = ParseAmount("1.10001")
	require.NoError(t, err)
	assert.Equal(t, "1.10001", d.String())

	for _, exp := range []struct{ in, want string }{
		{"1e2", "100"},
		{"2.5E-3", "0.0025"},
	} {
		d, err := ParseAmount(exp.in)
		require.NoError(t, err, "input %q", exp.in)
		assert.True(t, d.Equal(decimal.RequireFromString(exp.want)), "input %q", exp.in)
	}

	for _, bad := range []string{"", "   ", "abc", "1.2.3", "1e", "$10"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
