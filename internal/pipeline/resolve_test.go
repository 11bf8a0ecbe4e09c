package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excel-aggregator/internal/model"
)

func TestResolveColumns(t *testing.T) {
	available := []string{"Region", "Revenue", "Product", "Date"}

	tests := []struct {
		name   string
		tokens []string
		want   model.Selection
	}{
		{"index and duplicate index", []string{"1", "Revenue", "1"}, model.Selection{"Region", "Revenue"}},
		{"names only", []string{"Product", "Region"}, model.Selection{"Product", "Region"}},
		{"indices only", []string{"4", "2"}, model.Selection{"Date", "Revenue"}},
		{"name then its index", []string{"Revenue", "2"}, model.Selection{"Revenue"}},
		{"whitespace trimmed", []string{" 3 ", "  Date"}, model.Selection{"Product", "Date"}},
		{"blank tokens skipped", []string{"1", "", " "}, model.Selection{"Region"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveColumns(tt.tokens, available)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveColumnsReportsEveryInvalidToken(t *testing.T) {
	available := []string{"Region", "Revenue"}

	_, err := ResolveColumns([]string{"1", "7", "Cost", "0", "Revenue", "Margin", "7"}, available)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSelection))

	var selErr *SelectionError
	require.True(t, errors.As(err, &selErr))
	assert.Equal(t, []string{"7", "Cost", "0", "Margin"}, selErr.Tokens)
	assert.Equal(t, "invalid selections: Index 7, Column 'Cost', Index 0, Column 'Margin'", selErr.Error())
}

func TestResolveColumnsEmptySelection(t *testing.T) {
	for _, tokens := range [][]string{nil, {}, {"", "  "}} {
		_, err := ResolveColumns(tokens, []string{"A"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSelection)

		var selErr *SelectionError
		require.ErrorAs(t, err, &selErr)
		assert.True(t, selErr.Empty)
	}
}

func TestResolveColumnsNamesAreCaseSensitive(t *testing.T) {
	_, err := ResolveColumns([]string{"revenue"}, []string{"Revenue"})
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestSplitTokens(t *testing.T) {
	assert.Equal(t, []string{"1", "Revenue", "3", "Product"}, SplitTokens("1, Revenue,3 ,Product"))
	assert.Equal(t, []string{""}, SplitTokens(""))
}
