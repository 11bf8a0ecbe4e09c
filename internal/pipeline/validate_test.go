package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excel-aggregator/internal/model"
)

func TestValidatePlan(t *testing.T) {
	available := NameSet([]string{"Region", "Revenue", "Units"})

	assert.NoError(t, ValidatePlan(model.Selection{"Revenue", "Units"}, model.Selection{"Region"}, available))
}

func TestValidatePlanRoleConflict(t *testing.T) {
	available := NameSet([]string{"Region", "Revenue"})

	err := ValidatePlan(model.Selection{"Revenue"}, model.Selection{"Revenue"}, available)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrColumnRoleConflict)

	var colErr *ColumnsError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, []string{"Revenue"}, colErr.Columns)
}

func TestValidatePlanUnknownColumns(t *testing.T) {
	available := NameSet([]string{"Region", "Revenue"})

	err := ValidatePlan(model.Selection{"Revenue", "Cost"}, model.Selection{"Region", "Country", "Cost"}, available)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownColumns)

	var colErr *ColumnsError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, []string{"Cost", "Country"}, colErr.Columns)
}

func TestValidatePlanUnknownBeforeConflict(t *testing.T) {
	available := NameSet([]string{"Region", "Revenue"})

	// Cost is both unknown and in both roles: only the unknown check fires.
	err := ValidatePlan(model.Selection{"Cost", "Revenue"}, model.Selection{"Cost", "Revenue"}, available)
	assert.ErrorIs(t, err, ErrUnknownColumns)
	assert.NotErrorIs(t, err, ErrColumnRoleConflict)
}

func TestValidatePlanReportsAllOverlaps(t *testing.T) {
	available := NameSet([]string{"A", "B", "C"})

	err := ValidatePlan(model.Selection{"A", "B", "C"}, model.Selection{"C", "A"}, available)
	var colErr *ColumnsError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, []string{"A", "C"}, colErr.Columns)
}
