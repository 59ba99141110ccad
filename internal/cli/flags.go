package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/pflag"
)

// weekdayValue lets --day accept "mon", "Monday" or "1".
type weekdayValue struct{ day *domain.Weekday }

func (v weekdayValue) String() string {
	if v.day == nil || !v.day.Valid() {
		return ""
	}
	return v.day.String()
}

func (v weekdayValue) Set(s string) error {
	d, err := domain.ParseWeekday(s)
	if err != nil {
		return err
	}
	*v.day = d
	return nil
}

func (v weekdayValue) Type() string { return "weekday" }

// clockValue parses HH:MM.
type clockValue struct{ clock *domain.Clock }

func (v clockValue) String() string {
	if v.clock == nil {
		return ""
	}
	return v.clock.String()
}

func (v clockValue) Set(s string) error {
	c, err := domain.ParseClock(s)
	if err != nil {
		return err
	}
	*v.clock = c
	return nil
}

func (v clockValue) Type() string { return "HH:MM" }

// dateValue parses YYYY-MM-DD; the target stays nil until the flag is set.
type dateValue struct{ date **time.Time }

func (v dateValue) String() string {
	if v.date == nil || *v.date == nil {
		return ""
	}
	return (*v.date).Format(domain.DateLayout)
}

func (v dateValue) Set(s string) error {
	d, err := domain.ParseDate(s)
	if err != nil {
		return err
	}
	*v.date = &d
	return nil
}

func (v dateValue) Type() string { return "date" }

var (
	_ pflag.Value = weekdayValue{}
	_ pflag.Value = clockValue{}
	_ pflag.Value = dateValue{}
)

func dayFlag(fs *pflag.FlagSet, p *domain.Weekday, usage string) {
	fs.Var(weekdayValue{day: p}, "day", usage)
}

func clockFlag(fs *pflag.FlagSet, p *domain.Clock, name, usage string) {
	fs.Var(clockValue{clock: p}, name, usage)
}

func dateFlag(fs *pflag.FlagSet, p **time.Time, name, usage string) {
	fs.Var(dateValue{date: p}, name, usage)
}

// parseID accepts "12" or "#12".
func parseID(s, what string) (int64, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q", what, s)
	}
	return id, nil
}

// dateOr returns *d, or today when the flag was not given.
func dateOr(d *time.Time, now time.Time) time.Time {
	if d != nil {
		return *d
	}
	return domain.CalendarDate(now)
}
