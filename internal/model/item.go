package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Item is the domain model for a grocery list entry.
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	DueDate   *Date  `json:"dueDate"`
}

// Equal reports whether two items carry the same values.
func (it Item) Equal(other Item) bool {
	if it.ID != other.ID || it.Name != other.Name || it.Completed != other.Completed {
		return false
	}
	if it.DueDate == nil || other.DueDate == nil {
		return it.DueDate == nil && other.DueDate == nil
	}
	return *it.DueDate == *other.DueDate
}

// Overdue is true for pending items whose due date is before today.
func (it Item) Overdue(today Date) bool {
	return !it.Completed && it.DueDate != nil && it.DueDate.Before(today)
}

// EqualItems compares two lists element by element, order included.
func EqualItems(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// View is the state snapshot handed to the renderer.
// Editing is nil when no item is being edited or the edit target is gone.
type View struct {
	Items      []Item
	EditTarget string
	Editing    *Item
}

const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar day without time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// ParseDueDate reads a stored due date. Blank means no date, and a value
// that starts with YYYY-MM-DD (a timestamp, say) keeps just the day.
func ParseDueDate(s string) (*Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
