package render

import (
	"reflect"
	"testing"

	"github.com/JonMunkholm/bizcards/internal/contact"
)

func TestNewCard(t *testing.T) {
	tests := []struct {
		name string
		in   contact.Contact
		want Card
	}{
		{
			name: "full contact with skype",
			in: contact.Contact{
				Surname:    "Иванов",
				Firstname:  "Иван",
				Fathername: "Иванович",
				Duty:       "Директор",
				Address:    "г. Казань",
				Phones:     "+7 (916) 123-45-67",
				Email:      "ivan@example.com",
				Skype:      "ivanchik",
				Website:    "www.trakt.ru/kazan",
			},
			want: Card{
				Surname:  "Иванов",
				FullName: "ИВАНОВ\rИван Иванович",
				Duty:     "Директор",
				Address:  "г. Казань\r+7 (916) 123-45-67",
				Contacts: "www.trakt.ru/kazan\rivan@example.com\rSkype: ivanchik",
			},
		},
		{
			name: "no skype line",
			in: contact.Contact{
				Surname:   "Петров",
				Firstname: "Пётр",
				Email:     "p@example.com",
				Website:   "www.trakt.ru",
			},
			want: Card{
				Surname:  "Петров",
				FullName: "ПЕТРОВ\rПётр ",
				Address:  "\r",
				Contacts: "www.trakt.ru\rp@example.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewCard(tt.in); got != tt.want {
				t.Errorf("NewCard() =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}

func TestCard_Block(t *testing.T) {
	c := Card{FullName: "a", Duty: "b", Address: "c", Contacts: "d"}

	for name, want := range map[string]string{
		BlockFullName: "a",
		BlockDuty:     "b",
		BlockAddress:  "c",
		BlockContacts: "d",
		"Logo":        "",
	} {
		if got := c.Block(name); got != want {
			t.Errorf("Block(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestParagraphs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"one", []string{"one"}},
		{"ИВАНОВ\rИван ", []string{"ИВАНОВ", "Иван"}},
		{"\r+7 (916) 123-45-67", []string{"", "+7 (916) 123-45-67"}},
	}

	for _, tt := range tests {
		if got := Paragraphs(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Paragraphs(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
