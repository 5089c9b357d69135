package delimited

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindNull
	KindUndefined
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	default:
		return "string"
	}
}

// Value is a single parsed field. Fields start out as strings and may be
// promoted to another kind by type detection.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool

	// Raw is the token text a detected value was inferred from.
	Raw string
}

// Record is one row of fields in source order.
type Record []Value

// Text returns a string Value.
func Text(s string) Value { return Value{Kind: KindString, Str: s} }

// Number returns a numeric Value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Boolean returns a boolean Value.
func Boolean(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Null returns the null Value.
func Null() Value { return Value{Kind: KindNull} }

// Undefined returns the undefined Value.
func Undefined() Value { return Value{Kind: KindUndefined} }

// String renders the value as plain text. Numbers use the shortest decimal
// form, null and undefined render as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNull, KindUndefined:
		return ""
	default:
		return v.Str
	}
}

// Source returns the field text as it appeared in the input. Numbers keep
// their leading zeros and full digit run. Null and undefined render as the
// empty string.
func (v Value) Source() string {
	switch {
	case v.Kind == KindNull, v.Kind == KindUndefined:
		return ""
	case v.Raw != "":
		return v.Raw
	}
	return v.String()
}

// Interface returns the value as a plain Go value: string, float64, bool or nil.
func (v Value) Interface() any {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindNull, KindUndefined:
		return nil
	default:
		return v.Str
	}
}

// MarshalJSON encodes the value as its natural JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Strings converts a record into its source text fields.
func (r Record) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = v.Source()
	}
	return out
}

// numberPattern accepts unsigned integers and decimals only ("42", "3.14").
var numberPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// Infer classifies raw field text into a typed Value. Detected values keep
// token in Raw.
//
//	"42", "3.5"       -> number
//	"true", "FALSE"   -> bool
//	"null"            -> null
//	"undefined"       -> undefined
//	anything else     -> string
func Infer(token string) Value {
	var v Value
	switch {
	case numberPattern.MatchString(token):
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return Text(token)
		}
		v = Number(f)
	case strings.EqualFold(token, "true"):
		v = Boolean(true)
	case strings.EqualFold(token, "false"):
		v = Boolean(false)
	case token == "undefined":
		v = Undefined()
	case token == "null":
		v = Null()
	default:
		return Text(token)
	}
	v.Raw = token
	return v
}

// InferRecords applies Infer to every string field. Non-string fields are
// left untouched. Use it after a parse with DetectTypes disabled.
func InferRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		typed := make(Record, len(rec))
		for j, v := range rec {
			if v.Kind == KindString {
				v = Infer(v.Str)
			}
			typed[j] = v
		}
		out[i] = typed
	}
	return out
}
