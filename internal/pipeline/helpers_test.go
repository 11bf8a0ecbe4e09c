package pipeline

import "excel-aggregator/internal/model"

func nums(fs ...float64) []model.Value {
	out := make([]model.Value, len(fs))
	for i, f := range fs {
		out[i] = model.Number(f)
	}
	return out
}

func texts(ss ...string) []model.Value {
	out := make([]model.Value, len(ss))
	for i, s := range ss {
		out[i] = model.Text(s)
	}
	return out
}

func col(name string, values []model.Value) model.Column {
	return model.Column{Name: name, Values: values}
}

// salesTable is the Region/Revenue example used across the package tests
func salesTable() *model.Table {
	return model.MustTable(
		col("Region", texts("A", "A", "B")),
		col("Revenue", nums(10, 30, 20)),
	)
}

func plan(agg, group []string, ops map[string]model.Operation) model.AggregationPlan {
	return model.AggregationPlan{
		AggColumns:   agg,
		GroupColumns: group,
		Operations:   ops,
	}
}
