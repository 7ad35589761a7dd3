package gametime

import (
	"testing"
	"time"
)

func TestClassifyHour(t *testing.T) {
	tests := []struct {
		hour int
		want Label
	}{
		{0, Morning},
		{1, Day},
		{3, Evening},
		{5, Night},
		{7, Morning},
		{8, Morning},
		{9, Day},
		{12, Evening},
		{14, Night},
		{16, Morning},
		{18, Day},
		{20, Evening},
		{22, Night},
		{23, Morning},
	}

	for _, tt := range tests {
		if got := ClassifyHour(tt.hour); got != tt.want {
			t.Errorf("ClassifyHour(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestClassifyHour_Total(t *testing.T) {
	valid := map[Label]bool{Morning: true, Day: true, Evening: true, Night: true}
	for hour := 0; hour < 24; hour++ {
		got := ClassifyHour(hour)
		if !valid[got] {
			t.Errorf("ClassifyHour(%d) = %q, not a known phase", hour, got)
		}
	}
}

func TestClassify(t *testing.T) {
	ts := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	if got := Classify(ts); got != Morning {
		t.Errorf("Classify(08:00) = %q, want %q", got, Morning)
	}
}
