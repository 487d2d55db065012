package week

import (
	"fmt"
	"time"
)

// Marker identifies one weekly snapshot by its 8-digit date code.
type Marker struct {
	Code    string    `json:"code"`
	Date    time.Time `json:"date"`
	Display string    `json:"display"`
}

// ParseCode converts a fixed-width YYYYMMDD code into a Marker. Codes that
// are not 8 digits or not a real calendar date are rejected.
func ParseCode(code string) (Marker, error) {
	if len(code) != 8 {
		return Marker{}, fmt.Errorf("week code %q is not 8 digits", code)
	}
	date, err := time.Parse("20060102", code)
	if err != nil {
		return Marker{}, fmt.Errorf("week code %q is not a calendar date: %w", code, err)
	}

	return Marker{
		Code:    code,
		Date:    date,
		Display: date.Format("Jan 02, 2006"),
	}, nil
}
