package contact

import (
	"reflect"
	"testing"

	"github.com/JonMunkholm/bizcards/internal/delimited"
)

// ----------------------------------------------------------------------------
// City Lookup Tests
// ----------------------------------------------------------------------------

func TestCityCode(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  string
	}{
		{"address match", []string{"г. Казань, ул. Баумана, 1"}, "kazan"},
		{"case insensitive", []string{"КАЗАНЬ"}, "kazan"},
		{"compound name", []string{"Набережные Челны, пр. Мира"}, "chelny"},
		{"moscow has no subpath", []string{"г. Москва, ул. Тверская"}, ""},
		{"falls back to duty", []string{"", "Директор филиала в г. Самара"}, "samara"},
		{"address beats duty", []string{"г. Уфа", "Филиал Самара"}, "ufa"},
		{"no match", []string{"London", "Director"}, ""},
		{"no texts", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CityCode(Cities, tt.texts...); got != tt.want {
				t.Errorf("CityCode(%q) = %q, want %q", tt.texts, got, tt.want)
			}
		})
	}
}

func TestCities_NoMoscow(t *testing.T) {
	for _, c := range Cities {
		if c.Name == "Москва" {
			t.Fatal("Moscow must not be in the city table")
		}
	}
}

func TestWebsite(t *testing.T) {
	if got := Website("trakt.ru", "kazan"); got != "www.trakt.ru/kazan" {
		t.Errorf("Website() = %q, want %q", got, "www.trakt.ru/kazan")
	}
	if got := Website("trakt.ru", ""); got != "www.trakt.ru" {
		t.Errorf("Website() = %q, want %q", got, "www.trakt.ru")
	}
}

// ----------------------------------------------------------------------------
// Normalize Tests
// ----------------------------------------------------------------------------

func TestNormalize_EndToEnd(t *testing.T) {
	input := "Иванов;Иван Иванович;Директор;г. Казань;+7 9161234567;ivan@example.com;ivanchik\n"

	records, err := delimited.Parse(input, delimited.DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != 1 || len(records[0]) != 7 {
		t.Fatalf("Parse() = %d records, want 1 record of 7 fields", len(records))
	}

	got := Normalize(records, DefaultOptions())
	want := []Contact{{
		Surname:    "Иванов",
		Firstname:  "Иван",
		Fathername: "Иванович",
		Duty:       "Директор",
		Address:    "г. Казань",
		Phones:     "+7 (916) 123-45-67",
		Email:      "ivan@example.com",
		Skype:      "ivanchik",
		Website:    "www.trakt.ru/kazan",
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestNormalizeStrings(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want []Contact
	}{
		{
			name: "lowercase input is capitalized and cleaned",
			rows: [][]string{{
				"  Петров ", "пётр  сергеевич", "менеджер ,отдел продаж",
				"Москва,ул.Ленина", "8 916 123 45 67", "Petrov@Example.COM", "",
			}},
			want: []Contact{{
				Surname:    "Петров",
				Firstname:  "Пётр",
				Fathername: "Сергеевич",
				Duty:       "Менеджер, отдел продаж",
				Address:    "Москва, ул. Ленина",
				Phones:     "+7 (916) 123-45-67",
				Email:      "petrov@example.com",
				Website:    "www.trakt.ru",
			}},
		},
		{
			name: "short row padded",
			rows: [][]string{{"Сидоров", "Олег", "Инженер"}},
			want: []Contact{{
				Surname:   "Сидоров",
				Firstname: "Олег",
				Duty:      "Инженер",
				Website:   "www.trakt.ru",
			}},
		},
		{
			name: "long row truncated",
			rows: [][]string{{"A", "B", "C", "D", "E", "F", "G", "extra1", "extra2"}},
			want: []Contact{{
				Surname:   "A",
				Firstname: "B",
				Duty:      "C",
				Address:   "D",
				Phones:    "E",
				Email:     "f",
				Skype:     "G",
				Website:   "www.trakt.ru",
			}},
		},
		{
			name: "duty supplies city",
			rows: [][]string{{"Орлов", "", "Директор филиала, Самара"}},
			want: []Contact{{
				Surname: "Орлов",
				Duty:    "Директор филиала, Самара",
				Website: "www.trakt.ru/samara",
			}},
		},
		{
			name: "trailing blank row dropped",
			rows: [][]string{{"Кузнецов"}, {""}},
			want: []Contact{{Surname: "Кузнецов", Website: "www.trakt.ru"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeStrings(tt.rows, DefaultOptions())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeStrings() =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}

func TestNormalize_TypedFieldsBecomeText(t *testing.T) {
	records := []delimited.Record{{
		delimited.Text("Смирнов"),
		delimited.Text("Алексей"),
		delimited.Null(),
		delimited.Undefined(),
		delimited.Number(89161234567),
		delimited.Boolean(true),
	}}

	got := Normalize(records, Options{Domain: "example.org"})
	if len(got) != 1 {
		t.Fatalf("Normalize() returned %d contacts, want 1", len(got))
	}
	c := got[0]
	if c.Duty != "" || c.Address != "" {
		t.Errorf("null/undefined fields = %q, %q, want empty", c.Duty, c.Address)
	}
	if c.Phones != "+7 (916) 123-45-67" {
		t.Errorf("Phones = %q, want %q", c.Phones, "+7 (916) 123-45-67")
	}
	if c.Email != "true" {
		t.Errorf("Email = %q, want %q", c.Email, "true")
	}
	if c.Website != "www.example.org" {
		t.Errorf("Website = %q, want %q", c.Website, "www.example.org")
	}
}

func TestNormalize_DetectedNumbersKeepSourceText(t *testing.T) {
	input := "Иванов;Иван Иванович;Директор;г. Москва;84951234567890123;a@b.ru;007\n" +
		"Петров;Пётр Петрович;Инженер;г. Казань;0951234567;c@d.ru;0042"

	records, err := delimited.Parse(input, delimited.DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if records[0][6].Kind != delimited.KindNumber {
		t.Fatalf("skype kind = %v, want number", records[0][6].Kind)
	}

	got := Normalize(records, DefaultOptions())
	want := NormalizeStrings([][]string{
		{"Иванов", "Иван Иванович", "Директор", "г. Москва", "84951234567890123", "a@b.ru", "007"},
		{"Петров", "Пётр Петрович", "Инженер", "г. Казань", "0951234567", "c@d.ru", "0042"},
	}, DefaultOptions())
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() =\n%+v\nwant\n%+v", got, want)
	}
	if got[0].Skype != "007" || got[1].Skype != "0042" {
		t.Errorf("Skype = %q, %q, want %q, %q", got[0].Skype, got[1].Skype, "007", "0042")
	}
	if got[1].Phones != FormatPhones("0951234567") {
		t.Errorf("Phones = %q, want %q", got[1].Phones, FormatPhones("0951234567"))
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize(nil, DefaultOptions()); len(got) != 0 {
		t.Errorf("Normalize(nil) = %+v, want empty", got)
	}
}
