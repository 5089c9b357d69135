package core

import (
	"context"
	"strings"
	"testing"

	"github.com/JonMunkholm/bizcards/internal/store"
)

func TestOriginFrom(t *testing.T) {
	if got := OriginFrom(context.Background()); got != (Origin{}) {
		t.Errorf("OriginFrom(empty) = %+v, want zero", got)
	}

	want := Origin{ClientIP: "192.0.2.1", UserAgent: "Mozilla/5.0"}
	if got := OriginFrom(WithOrigin(context.Background(), want)); got != want {
		t.Errorf("OriginFrom() = %+v, want %+v", got, want)
	}
}

func TestOrigin_Stamp(t *testing.T) {
	tests := []struct {
		name   string
		origin Origin
		wantUA string
	}{
		{"short agent", Origin{ClientIP: "10.0.0.1", UserAgent: "curl/8.0"}, "curl/8.0"},
		{"long agent truncated", Origin{ClientIP: "10.0.0.1", UserAgent: strings.Repeat("ж", 300)}, strings.Repeat("ж", maxUserAgent)},
		{"empty", Origin{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := tt.origin.stamp(store.Run{Source: "list.csv"})
			if run.Source != "list.csv" {
				t.Errorf("Source = %q, want it kept", run.Source)
			}
			if run.ClientIP != tt.origin.ClientIP {
				t.Errorf("ClientIP = %q, want %q", run.ClientIP, tt.origin.ClientIP)
			}
			if run.UserAgent != tt.wantUA {
				t.Errorf("UserAgent length = %d, want %d", len([]rune(run.UserAgent)), len([]rune(tt.wantUA)))
			}
		})
	}
}
