package delimited

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{"42", Number(42)},
		{"0", Number(0)},
		{"3.14", Number(3.14)},
		{"89161234567", Number(89161234567)},
		{"true", Boolean(true)},
		{"TRUE", Boolean(true)},
		{"False", Boolean(false)},
		{"null", Null()},
		{"undefined", Undefined()},
		{"NULL", Text("NULL")},
		{"", Text("")},
		{"-5", Text("-5")},
		{"1.", Text("1.")},
		{".5", Text(".5")},
		{"1e3", Text("1e3")},
		{"+7 916", Text("+7 916")},
		{"truth", Text("truth")},
		{"Иван", Text("Иван")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Infer(tt.input)
			if !reflect.DeepEqual(withoutRaw(got), tt.want) {
				t.Errorf("Infer(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got.Source() != tt.input && got.Kind != KindNull && got.Kind != KindUndefined {
				t.Errorf("Infer(%q).Source() = %q, want the input", tt.input, got.Source())
			}
		})
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"text", Text("abc"), "abc"},
		{"integer", Number(42), "42"},
		{"decimal", Number(3.5), "3.5"},
		{"long integer", Number(89161234567), "89161234567"},
		{"bool", Boolean(true), "true"},
		{"null", Null(), ""},
		{"undefined", Undefined(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_Source(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"leading zeros", "007", "007"},
		{"long digit run", "84951234567890123", "84951234567890123"},
		{"trailing zero decimal", "1.50", "1.50"},
		{"bool keeps case", "TRUE", "TRUE"},
		{"null", "null", ""},
		{"undefined", "undefined", ""},
		{"text", "abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Infer(tt.token).Source(); got != tt.want {
				t.Errorf("Source() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := Number(42).Source(); got != "42" {
		t.Errorf("Number(42).Source() = %q, want %q", got, "42")
	}
}

func TestRecord_Strings_KeepsSourceText(t *testing.T) {
	rec := Record{Infer("0042"), Infer("84951234567890123"), Infer("null"), Text("x")}

	got := rec.Strings()
	want := []string{"0042", "84951234567890123", "", "x"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Strings() = %q, want %q", got, want)
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	rec := Record{Text("a"), Number(1.5), Boolean(false), Null(), Undefined()}

	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `["a",1.5,false,null,null]`
	if string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
}

func TestInferRecords(t *testing.T) {
	in := []Record{{Text("1"), Text("x"), Boolean(true)}}

	got := InferRecords(in)
	want := []Record{{Number(1), Text("x"), Boolean(true)}}
	if !reflect.DeepEqual([]Record{recordWithoutRaw(got[0])}, want) {
		t.Errorf("InferRecords() = %+v, want %+v", got, want)
	}
	if in[0][0].Kind != KindString {
		t.Error("InferRecords mutated its input")
	}
}

func withoutRaw(v Value) Value {
	v.Raw = ""
	return v
}

func recordWithoutRaw(rec Record) Record {
	out := make(Record, len(rec))
	for i, v := range rec {
		out[i] = withoutRaw(v)
	}
	return out
}
