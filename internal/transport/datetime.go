package transport

import (
	"fmt"
	"time"
)

const (
	// InputDateLayout takes day and month with or without a leading zero.
	InputDateLayout = "2-1-2006"
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
)

// ParseBookingDate converts DD-MM-YYYY into the stored YYYY-MM-DD form.
func ParseBookingDate(s string) (string, error) {
	d, err := time.Parse(InputDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("date must be DD-MM-YYYY: %q", s)
	}
	return d.Format(DateLayout), nil
}

// ParseBookingTime accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func ParseBookingTime(s string) (string, error) {
	for _, layout := range []string{TimeLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("time must be HH:MM or HH:MM:SS: %q", s)
}
