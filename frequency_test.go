package moneybook

import (
	"testing"
	"time"
)

func TestFrequencyAdvance(t *testing.T) {
	tests := []struct {
		name     string
		freq     Frequency
		from     Date
		expected Date
	}{
		{"daily", Daily, NewDate(2024, time.January, 15), NewDate(2024, time.January, 16)},
		{"weekly", Weekly, NewDate(2024, time.January, 15), NewDate(2024, time.January, 22)},
		{"biweekly", Biweekly, NewDate(2024, time.January, 15), NewDate(2024, time.January, 29)},
		{"monthly", Monthly, NewDate(2024, time.January, 15), NewDate(2024, time.February, 15)},
		{"monthly clamps at february", Monthly, NewDate(2024, time.January, 31), NewDate(2024, time.February, 29)},
		{"monthly over month end", Monthly, NewDate(2025, time.January, 31), NewDate(2025, time.February, 28)},
		{"monthly over year end", Monthly, NewDate(2024, time.December, 15), NewDate(2025, time.January, 15)},
		{"quarterly", Quarterly, NewDate(2024, time.November, 30), NewDate(2025, time.February, 28)},
		{"yearly", Yearly, NewDate(2024, time.June, 1), NewDate(2025, time.June, 1)},
		{"yearly from leap day", Yearly, NewDate(2024, time.February, 29), NewDate(2025, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.freq.Advance(tt.from); got != tt.expected {
				t.Errorf("%s.Advance(%v) = %v, want %v", tt.freq, tt.from, got, tt.expected)
			}
		})
	}
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		input    string
		expected Frequency
		err      bool
	}{
		{"monthly", Monthly, false},
		{" Weekly ", Weekly, false},
		{"fortnightly", Biweekly, false},
		{"annual", Yearly, false},
		{"hourly", Daily, true},
	}
	for _, tt := range tests {
		got, err := ParseFrequency(tt.input)
		if tt.err != (err != nil) {
			t.Errorf("ParseFrequency(%q) error = %v, want error %v", tt.input, err, tt.err)
			continue
		}
		if !tt.err && got != tt.expected {
			t.Errorf("ParseFrequency(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
