package entity

import (
	"fmt"
	"strings"
	"time"
)

// ConditionKind identifies the variant of a Condition.
type ConditionKind int

const (
	KindAll ConditionKind = iota + 1
	KindID
	KindYearMonth
	KindDate
	KindKeywords
)

// String returns the label used in logs, metrics and JSON.
func (k ConditionKind) String() string {
	switch k {
	case KindAll:
		return "all"
	case KindID:
		return "id"
	case KindYearMonth:
		return "month"
	case KindDate:
		return "date"
	case KindKeywords:
		return "keywords"
	default:
		return "unknown"
	}
}

// Condition selects a subset of entries. The set of implementations is closed:
// All, ByID, ByYearMonth, ByDate and ByKeywords.
type Condition interface {
	Kind() ConditionKind
	// Validate reports calendar or term problems wrapped in ErrInvalidCondition.
	Validate() error
	String() string
	isCondition()
}

// All selects every entry in the store.
type All struct{}

// ByID selects exactly one entry.
type ByID struct {
	ID int64
}

// ByYearMonth selects the entries created in a calendar month.
type ByYearMonth struct {
	Year  int
	Month time.Month
}

// ByDate selects the entries created on a calendar day.
type ByDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ByKeywords selects entries whose title or body contains every term.
type ByKeywords struct {
	Terms []string
}

func (All) Kind() ConditionKind         { return KindAll }
func (ByID) Kind() ConditionKind        { return KindID }
func (ByYearMonth) Kind() ConditionKind { return KindYearMonth }
func (ByDate) Kind() ConditionKind      { return KindDate }
func (ByKeywords) Kind() ConditionKind  { return KindKeywords }

func (All) isCondition()         {}
func (ByID) isCondition()        {}
func (ByYearMonth) isCondition() {}
func (ByDate) isCondition()      {}
func (ByKeywords) isCondition()  {}

func (All) String() string { return "all" }

func (c ByID) String() string { return fmt.Sprintf("id:%d", c.ID) }

func (c ByYearMonth) String() string { return fmt.Sprintf("month:%04d-%02d", c.Year, int(c.Month)) }

func (c ByDate) String() string {
	return fmt.Sprintf("date:%04d-%02d-%02d", c.Year, int(c.Month), c.Day)
}

func (c ByKeywords) String() string { return "keywords:" + strings.Join(c.Terms, " ") }

func (All) Validate() error { return nil }

func (c ByID) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidCondition, c.ID)
	}
	return nil
}

func (c ByYearMonth) Validate() error {
	if err := validateYear(c.Year); err != nil {
		return err
	}
	return validateMonth(c.Month)
}

func (c ByDate) Validate() error {
	if err := validateYear(c.Year); err != nil {
		return err
	}
	if err := validateMonth(c.Month); err != nil {
		return err
	}
	if c.Day < 1 || c.Day > daysIn(c.Year, c.Month) {
		return fmt.Errorf("%w: day %d out of range for %04d-%02d", ErrInvalidCondition, c.Day, c.Year, int(c.Month))
	}
	return nil
}

func (c ByKeywords) Validate() error {
	if len(c.Terms) == 0 {
		return fmt.Errorf("%w: at least one keyword is required", ErrInvalidCondition)
	}
	for _, t := range c.Terms {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: keywords must not be blank", ErrInvalidCondition)
		}
	}
	return nil
}

// Keywords splits a free-form query on whitespace.
func Keywords(query string) ByKeywords {
	return ByKeywords{Terms: strings.Fields(query)}
}

// ParseYearMonth parses "2006-01" into a validated ByYearMonth.
func ParseYearMonth(s string) (ByYearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return ByYearMonth{}, fmt.Errorf("%w: month must look like 2006-01: %v", ErrInvalidCondition, err)
	}
	c := ByYearMonth{Year: t.Year(), Month: t.Month()}
	if err := c.Validate(); err != nil {
		return ByYearMonth{}, err
	}
	return c, nil
}

// ParseDate parses "2006-01-02" into a validated ByDate.
func ParseDate(s string) (ByDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return ByDate{}, fmt.Errorf("%w: date must look like 2006-01-02: %v", ErrInvalidCondition, err)
	}
	c := ByDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	if err := c.Validate(); err != nil {
		return ByDate{}, err
	}
	return c, nil
}

// MinYear and MaxYear bound calendar conditions to the years whose instants
// fit in int64 Unix nanoseconds, the SQLite storage format.
const (
	MinYear = 1678
	MaxYear = 2261
)

func validateYear(y int) error {
	if y < MinYear || y > MaxYear {
		return fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidCondition, y, MinYear, MaxYear)
	}
	return nil
}

func validateMonth(m time.Month) error {
	if m < time.January || m > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidCondition, int(m))
	}
	return nil
}

// daysIn returns the number of days of month m in year y.
func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
