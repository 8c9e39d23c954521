package service

import (
	"testing"
	"time"
)

func TestDataAge(t *testing.T) {
	t.Parallel()

	cases := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{0, "just now"},
		{-5 * time.Second, "just now"},
		{59 * time.Second, "just now"},
		{90 * time.Second, "1 minutes ago"},
		{59 * time.Minute, "59 minutes ago"},
		{3700 * time.Second, "1 hours ago"},
		{23*time.Hour + 59*time.Minute, "23 hours ago"},
		{90000 * time.Second, "1 days ago"},
		{72 * time.Hour, "3 days ago"},
	}
	for _, tc := range cases {
		if got := DataAge(fixedNow, fixedNow.Add(-tc.ago)); got != tc.want {
			t.Errorf("DataAge(-%v) = %q, want %q", tc.ago, got, tc.want)
		}
	}

	if got := DataAge(fixedNow, time.Time{}); got != "" {
		t.Errorf("zero timestamp should give empty age, got %q", got)
	}
}
