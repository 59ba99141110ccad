package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is an ISO day of week: 1 = Monday ... 7 = Sunday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekdays lists the week in ISO order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = map[Weekday]string{
	Monday: "Monday", Tuesday: "Tuesday", Wednesday: "Wednesday", Thursday: "Thursday",
	Friday: "Friday", Saturday: "Saturday", Sunday: "Sunday",
}

func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Weekday(%d)", int(d))
}

// Short returns the three-letter abbreviation ("Mon").
func (d Weekday) Short() string {
	if !d.Valid() {
		return "???"
	}
	return d.String()[:3]
}

// WeekdayOf maps a calendar date onto the ISO weekday.
func WeekdayOf(t time.Time) Weekday {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

// ParseWeekday accepts "1".."7", full names and three-letter abbreviations,
// case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		d := Weekday(n)
		if !d.Valid() {
			return 0, &ValidationError{Field: "day", Message: fmt.Sprintf("day %d out of range 1-7", n)}
		}
		return d, nil
	}
	for _, d := range AllWeekdays {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return 0, &ValidationError{Field: "day", Message: fmt.Sprintf("unknown day %q", s)}
}

// WeekStart returns the Monday 00:00 of the ISO week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -(int(WeekdayOf(t)) - 1))
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateLayout is the storage and CLI format for calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Message: fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", s)}
	}
	return t, nil
}

// MinutesPerDay bounds Clock values; 24:00 is only meaningful as an end bound.
const MinutesPerDay = 24 * 60

// Clock is a time of day with minute precision, stored as minutes since midnight.
type Clock int

// NewClock builds a Clock from hour and minute, validating the range.
func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, &ValidationError{Field: "time", Message: fmt.Sprintf("time %02d:%02d out of range", hour, minute)}
	}
	return Clock(hour*60 + minute), nil
}

// MustClock is NewClock for literals known to be valid.
func MustClock(hour, minute int) Clock {
	c, err := NewClock(hour, minute)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseClock accepts "H:MM", "HH:MM" or "HH:MM:SS". Seconds must be zero
// padding only; the value is validated by range, not by pattern.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, &ValidationError{Field: "time", Message: fmt.Sprintf("invalid time %q (want HH:MM)", s)}
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || p == "" {
			return 0, &ValidationError{Field: "time", Message: fmt.Sprintf("invalid time %q (want HH:MM)", s)}
		}
		nums[i] = n
	}
	if len(nums) == 3 && (nums[2] < 0 || nums[2] > 59) {
		return 0, &ValidationError{Field: "time", Message: fmt.Sprintf("time %q has out of range seconds", s)}
	}
	return NewClock(nums[0], nums[1])
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// StorageString renders the HH:MM:SS column format.
func (c Clock) StorageString() string {
	return fmt.Sprintf("%02d:%02d:00", c.Hour(), c.Minute())
}

// Add shifts the clock by the given minutes without wrapping.
func (c Clock) Add(minutes int) Clock { return c + Clock(minutes) }

// On places the clock on the given date.
func (c Clock) On(date time.Time) time.Time {
	return DateOf(date).Add(time.Duration(c) * time.Minute)
}

// CalendarDate keeps t's wall-clock date and pins it to UTC midnight, the
// form dates are stored and compared in.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
