package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromInterface(t *testing.T) {
	tests := []struct {
		in   interface{}
		want Value
	}{
		{nil, Missing()},
		{3.5, Number(3.5)},
		{float32(2), Number(2)},
		{7, Number(7)},
		{int64(-4), Number(-4)},
		{true, Number(1)},
		{false, Number(0)},
		{"abc", Text("abc")},
		{json.Number("12.5"), Number(12.5)},
		{[]int{1, 2}, Text("[1,2]")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromInterface(tt.in), "%#v", tt.in)
	}
}

func TestCompare(t *testing.T) {
	assert.Negative(t, Compare(Number(1), Number(2)))
	assert.Positive(t, Compare(Text("b"), Text("a")))
	assert.Negative(t, Compare(Number(100), Text("1")))
	assert.Negative(t, Compare(Text("z"), Missing()))
	assert.Zero(t, Compare(Missing(), Missing()))
	assert.Zero(t, Compare(Number(2), Number(2)))
}

func TestValueJSON(t *testing.T) {
	row := []Value{Number(1.5), Text("x"), Missing()}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5,"x",null]`, string(data))

	var back []Value
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, row, back)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "40", Number(40).String())
	assert.Equal(t, "2.25", Number(2.25).String())
	assert.Equal(t, "", Missing().String())
	assert.Equal(t, "missing", KindMissing.String())
}
