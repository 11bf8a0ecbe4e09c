package model

import (
	"encoding/json"
	"strconv"
)

// Kind tells what a Value holds
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "missing"
	}
}

// Value is a single cell: a number, a piece of text, or the missing-value marker.
// The zero Value is missing.
type Value struct {
	Kind   Kind
	Number float64
	Text   string
}

// Missing returns the missing-value marker
func Missing() Value { return Value{} }

// Number wraps a float64
func Number(f float64) Value { return Value{Kind: KindNumber, Number: f} }

// Text wraps a string
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

func (v Value) IsMissing() bool { return v.Kind == KindMissing }
func (v Value) IsNumber() bool  { return v.Kind == KindNumber }
func (v Value) IsText() bool    { return v.Kind == KindText }

// String renders the value the way it is shown in previews and CSV output.
// Missing renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindText:
		return v.Text
	default:
		return ""
	}
}

// Interface returns the value as float64, string or nil
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindNumber:
		return v.Number
	case KindText:
		return v.Text
	default:
		return nil
	}
}

// MarshalJSON encodes numbers as JSON numbers, text as strings and missing as null
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON accepts numbers, strings and null
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromInterface(raw)
	return nil
}

// FromInterface converts a decoded scalar into a Value. Unsupported types
// are rendered as text.
func FromInterface(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return Missing()
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case bool:
		if x {
			return Number(1)
		}
		return Number(0)
	case string:
		return Text(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return Number(f)
		}
		return Text(x.String())
	default:
		b, _ := json.Marshal(x)
		return Text(string(b))
	}
}

// Compare orders two values: numbers numerically, then text lexicographically,
// then missing. Two missing values compare equal.
func Compare(a, b Value) int {
	if a.Kind != b.Kind {
		return kindRank(a.Kind) - kindRank(b.Kind)
	}
	switch a.Kind {
	case KindNumber:
		switch {
		case a.Number < b.Number:
			return -1
		case a.Number > b.Number:
			return 1
		}
		return 0
	case KindText:
		switch {
		case a.Text < b.Text:
			return -1
		case a.Text > b.Text:
			return 1
		}
		return 0
	default:
		return 0
	}
}

func kindRank(k Kind) int {
	switch k {
	case KindNumber:
		return 0
	case KindText:
		return 1
	default:
		return 2
	}
}
