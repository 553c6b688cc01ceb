package moneybook

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Frequency is the calendar cadence of a recurring payment.
type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Biweekly
	Monthly
	Quarterly
	Yearly
)

func (f Frequency) String() string {
	switch f {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Biweekly:
		return "biweekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// ParseFrequency parses a string into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "biweekly", "fortnightly":
		return Biweekly, nil
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "yearly", "year", "annual":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown frequency %q", s)
	}
}

// Advance returns the next due date after d for this frequency.
//
// Month-based frequencies use calendar arithmetic that preserves the day of
// month, clamping at shorter months, so a cadence anchored on the 31st does
// not drift across months of different lengths or leap years.
func (f Frequency) Advance(d Date) Date {
	switch f {
	case Daily:
		return d.Add(1)
	case Weekly:
		return d.Add(7)
	case Biweekly:
		return d.Add(14)
	case Monthly:
		return d.AddMonths(1)
	case Quarterly:
		return d.AddMonths(3)
	case Yearly:
		return d.AddMonths(12)
	default:
		panic(fmt.Sprintf("unknown frequency %d", f))
	}
}

// MarshalJSON encodes the frequency as its lowercase name.
func (f Frequency) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON decodes a frequency from its lowercase name.
func (f *Frequency) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseFrequency(str)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
