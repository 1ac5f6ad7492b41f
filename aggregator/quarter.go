package aggregator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Quarter validation constants
const (
	MinValidYear            = 2020 // Year the network launched
	MaxAllowedYearsInFuture = 1    // Allow this many years into the future
)

const secondsPerDay = 24 * 60 * 60

// Quarter validation errors
var (
	ErrInvalidQuarterFormat = errors.New("quarter must look like YYYY-QN")
	ErrQuarterOutOfRange    = errors.New("quarter number must be between 1 and 4")
	ErrYearOutOfRange       = errors.New("year out of valid range")
)

// Quarter is a calendar quarter in UTC
type Quarter struct {
	Year   int
	Number int
}

// NewQuarter creates a Quarter with domain validation
func NewQuarter(year, number int) (Quarter, error) {
	if number < 1 || number > 4 {
		return Quarter{}, ErrQuarterOutOfRange
	}

	maxValidYear := time.Now().Year() + MaxAllowedYearsInFuture
	if year < MinValidYear || year > maxValidYear {
		return Quarter{}, fmt.Errorf("%w: must be between %d and %d", ErrYearOutOfRange, MinValidYear, maxValidYear)
	}

	return Quarter{Year: year, Number: number}, nil
}

// ParseQuarter parses "2025-Q3" (case-insensitive)
func ParseQuarter(s string) (Quarter, error) {
	yearPart, numberPart, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(s)), "-Q")
	if !ok || len(yearPart) != 4 || len(numberPart) != 1 {
		return Quarter{}, fmt.Errorf("%w: %q", ErrInvalidQuarterFormat, s)
	}

	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return Quarter{}, fmt.Errorf("%w: %q", ErrInvalidQuarterFormat, s)
	}
	number, err := strconv.Atoi(numberPart)
	if err != nil {
		return Quarter{}, fmt.Errorf("%w: %q", ErrInvalidQuarterFormat, s)
	}

	return NewQuarter(year, number)
}

// UnmarshalText implements encoding.TextUnmarshaler
func (q *Quarter) UnmarshalText(text []byte) error {
	parsed, err := ParseQuarter(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (q Quarter) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// String returns the parseable form, e.g. "2025-Q3"
func (q Quarter) String() string {
	return fmt.Sprintf("%04d-Q%d", q.Year, q.Number)
}

// Label returns the display form, e.g. "Q3 2025"
func (q Quarter) Label() string {
	return fmt.Sprintf("Q%d %d", q.Number, q.Year)
}

// Start is the first second of the quarter
func (q Quarter) Start() time.Time {
	return time.Date(q.Year, time.Month(3*(q.Number-1)+1), 1, 0, 0, 0, 0, time.UTC)
}

// End is the last second of the quarter
func (q Quarter) End() time.Time {
	return q.Next().Start().Add(-time.Second)
}

// Next returns the following quarter without range validation
func (q Quarter) Next() Quarter {
	if q.Number == 4 {
		return Quarter{Year: q.Year + 1, Number: 1}
	}
	return Quarter{Year: q.Year, Number: q.Number + 1}
}

// Compare orders quarters chronologically
func (q Quarter) Compare(o Quarter) int {
	if q.Year != o.Year {
		return q.Year - o.Year
	}
	return q.Number - o.Number
}

// PeriodDescription returns e.g. "Jul 1 - Sep 30, 2025"
func (q Quarter) PeriodDescription() string {
	return fmt.Sprintf("%s - %s", q.Start().Format("Jan 2"), q.End().Format("Jan 2, 2006"))
}

// DayIndex is the whole number of days between genesis and t, rounded toward negative infinity
func DayIndex(t, genesis time.Time) int64 {
	secs := t.Unix() - genesis.Unix()
	day := secs / secondsPerDay
	if secs%secondsPerDay != 0 && secs < 0 {
		day--
	}
	return day
}
