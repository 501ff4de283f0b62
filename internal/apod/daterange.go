package apod

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrMissingDate means one or both ends of the range were left blank.
	ErrMissingDate = errors.New("start and end dates are required")
	// ErrInvalidDate means a date did not match DateLayout.
	ErrInvalidDate = errors.New("dates must use the YYYY-MM-DD format")
	// ErrInvertedRange means the start date falls after the end date.
	ErrInvertedRange = errors.New("start date is after end date")
)

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

type rangeInput struct {
	Start string `validate:"required,datetime=2006-01-02"`
	End   string `validate:"required,datetime=2006-01-02"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func rangeValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ParseDateRange validates two user supplied dates and returns the range.
// Missing values win over malformed ones so the user sees the simplest fix first.
func ParseDateRange(start, end string) (DateRange, error) {
	in := rangeInput{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
	if err := rangeValidator().Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return DateRange{}, fmt.Errorf("validate range: %w", err)
		}
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return DateRange{}, ErrMissingDate
			}
		}
		fe := verrs[0]
		return DateRange{}, fmt.Errorf("%w: %s date %q", ErrInvalidDate, strings.ToLower(fe.Field()), fe.Value())
	}

	s, err := ParseDay(in.Start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: start date %q", ErrInvalidDate, in.Start)
	}
	e, err := ParseDay(in.End)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: end date %q", ErrInvalidDate, in.End)
	}
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("%w: %s > %s", ErrInvertedRange, in.Start, in.End)
	}
	return DateRange{Start: s, End: e}, nil
}

// Contains reports whether day falls inside the range, bounds included.
func (r DateRange) Contains(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// Days returns the number of calendar days covered.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// IsZero reports whether the range was never set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// String renders the range with ISO dates.
func (r DateRange) String() string {
	if r.IsZero() {
		return ""
	}
	return r.Start.Format(DateLayout) + " → " + r.End.Format(DateLayout)
}

// Filter returns the records whose date falls inside r, preserving feed order.
// Records with an unparseable date are skipped and counted.
func Filter(records []Record, r DateRange) (matched []Record, skipped int) {
	matched = make([]Record, 0, len(records))
	for _, rec := range records {
		day, err := rec.Day()
		if err != nil {
			skipped++
			continue
		}
		if r.Contains(day) {
			matched = append(matched, rec)
		}
	}
	return matched, skipped
}
