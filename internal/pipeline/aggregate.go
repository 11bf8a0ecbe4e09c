package pipeline

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"excel-aggregator/internal/model"
)

// group collects the row indices that share one group key
type group struct {
	key  []model.Value
	rows []int
}

// Execute groups the rows of table by plan.GroupColumns and reduces every
// aggregation column with its assigned operation. Groups are returned sorted
// ascending by key tuple (see model.Compare); an empty table yields an empty
// result with the right headers.
func Execute(table *model.Table, plan model.AggregationPlan) (*model.ResultTable, error) {
	groupCols, err := lookupColumns(table, plan.GroupColumns)
	if err != nil {
		return nil, err
	}
	aggCols, err := lookupColumns(table, plan.AggColumns)
	if err != nil {
		return nil, err
	}

	result := &model.ResultTable{
		GroupColumns: append([]string{}, plan.GroupColumns...),
		AggColumns:   append([]string{}, plan.AggColumns...),
		Operations:   make([]model.Operation, len(plan.AggColumns)),
		Rows:         []model.ResultRow{},
	}
	for i, name := range plan.AggColumns {
		op, ok := plan.Operations[name]
		if !ok {
			return nil, &OperationError{Missing: []string{name}}
		}
		result.Operations[i] = op
	}

	groups := partition(table.RowCount(), groupCols)
	for _, g := range groups {
		row := model.ResultRow{Key: g.key, Values: make([]model.Value, len(aggCols))}
		for i, col := range aggCols {
			row.Values[i] = reduce(result.Operations[i], col.Values, g.rows)
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

func lookupColumns(table *model.Table, names model.Selection) ([]model.Column, error) {
	cols := make([]model.Column, 0, len(names))
	var missing []string
	for _, name := range names {
		col, ok := table.Column(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols = append(cols, col)
	}
	if len(missing) > 0 {
		return nil, &ColumnsError{Kind: ErrUnknownColumns, Columns: missing}
	}
	return cols, nil
}

// partition assigns every row to the group of its key tuple and sorts the
// groups by key
func partition(rowCount int, groupCols []model.Column) []*group {
	index := make(map[string]*group)
	var groups []*group
	for r := 0; r < rowCount; r++ {
		key := make([]model.Value, len(groupCols))
		for i, col := range groupCols {
			key[i] = col.Values[r]
		}
		enc := encodeKey(key)
		g, ok := index[enc]
		if !ok {
			g = &group{key: key}
			index[enc] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, r)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return compareKeys(groups[i].key, groups[j].key) < 0
	})
	return groups
}

// encodeKey renders a key tuple into a map key. Missing values encode
// identically so they fall into one group; 0 and -0 are the same number.
func encodeKey(key []model.Value) string {
	var b strings.Builder
	for _, v := range key {
		switch v.Kind {
		case model.KindNumber:
			f := v.Number
			if f == 0 {
				f = 0
			}
			b.WriteByte('n')
			b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		case model.KindText:
			b.WriteByte('t')
			b.WriteString(strconv.Quote(v.Text))
		default:
			b.WriteByte('m')
		}
		b.WriteByte(0)
	}
	return b.String()
}

func compareKeys(a, b []model.Value) int {
	for i := range a {
		if c := model.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// reduce applies op to the values of one column restricted to rows. Numeric
// reductions only see numbers; count sees every non-missing cell.
func reduce(op model.Operation, values []model.Value, rows []int) model.Value {
	if op == model.OpCount {
		n := 0
		for _, r := range rows {
			if !values[r].IsMissing() {
				n++
			}
		}
		return model.Number(float64(n))
	}

	nums := make([]float64, 0, len(rows))
	for _, r := range rows {
		if values[r].IsNumber() {
			nums = append(nums, values[r].Number)
		}
	}

	switch op {
	case model.OpSum:
		return model.Number(sum(nums))
	case model.OpMean:
		if len(nums) == 0 {
			return model.Missing()
		}
		return model.Number(sum(nums) / float64(len(nums)))
	case model.OpMin:
		if len(nums) == 0 {
			return model.Missing()
		}
		m := nums[0]
		for _, v := range nums[1:] {
			m = math.Min(m, v)
		}
		return model.Number(m)
	case model.OpMax:
		if len(nums) == 0 {
			return model.Missing()
		}
		m := nums[0]
		for _, v := range nums[1:] {
			m = math.Max(m, v)
		}
		return model.Number(m)
	case model.OpMedian:
		if len(nums) == 0 {
			return model.Missing()
		}
		return model.Number(median(nums))
	case model.OpStd:
		if len(nums) < 2 {
			return model.Missing()
		}
		return model.Number(sampleStd(nums))
	default:
		return model.Missing()
	}
}

func sum(nums []float64) float64 {
	s := 0.0
	for _, v := range nums {
		s += v
	}
	return s
}

// median sorts a copy of nums
func median(nums []float64) float64 {
	sorted := append([]float64{}, nums...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// sampleStd uses the n-1 denominator
func sampleStd(nums []float64) float64 {
	mean := sum(nums) / float64(len(nums))
	sq := 0.0
	for _, v := range nums {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(nums)-1))
}
