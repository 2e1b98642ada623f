package service

import (
	"fmt"
	"strings"
	"time"

	"squadup/internal/domain/entity"
)

const (
	DateLayout = "02-01-2006"
	TimeLayout = "03:04 PM"

	// LockWindow is how long after kickoff a match still accepts changes.
	LockWindow = 72 * time.Hour
)

var timeLayouts = []string{TimeLayout, "3:04 PM", "03:04PM", "3:04PM"}

type LockState struct {
	IsLocked  bool
	LockTimer string
}

// ComputeLockState derives the lock flag and countdown for a match.
// A cancelled match keeps its current lock flag and shows no countdown.
func ComputeLockState(now, kickOff time.Time, isCancelled, isLocked bool) LockState {
	if isCancelled {
		return LockState{IsLocked: isLocked, LockTimer: "0"}
	}
	if kickOff.Before(now.Add(-LockWindow)) {
		return LockState{IsLocked: true, LockTimer: "0"}
	}
	return LockState{IsLocked: false, LockTimer: FormatLockTimer(kickOff.Sub(now))}
}

// FormatLockTimer renders "<d> days H:MM", dropping the days segment when it
// is zero. The duration is rounded to the nearest minute, half a minute
// rounding up. Durations at or below zero render as "0".
func FormatLockTimer(d time.Duration) string {
	if d <= 0 {
		return "0"
	}
	d = d.Round(time.Minute)
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)

	if days > 0 {
		return fmt.Sprintf("%d days %d:%02d", days, hours, minutes)
	}
	return fmt.Sprintf("%d:%02d", hours, minutes)
}

func ParseDate(date string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
}

func ParseClock(clock string) (time.Time, error) {
	clock = strings.ToUpper(strings.TrimSpace(clock))
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, clock); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// At combines a DD-MM-YYYY date and an hh:mm A clock into an instant in loc.
func At(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	t, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// LockGate evaluates the time based rules of a match against a clock.
type LockGate struct {
	loc *time.Location
	now func() time.Time
}

func NewLockGate(loc *time.Location, now func() time.Time) *LockGate {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &LockGate{loc: loc, now: now}
}

func (g *LockGate) Location() *time.Location {
	return g.loc
}

func (g *LockGate) KickOff(m *entity.Match) (time.Time, error) {
	return At(m.Date, m.KickOff, g.loc)
}

// Apply refreshes IsLocked and LockTimer in place. The match is left
// untouched when its schedule cannot be parsed.
func (g *LockGate) Apply(m *entity.Match) error {
	kickOff, err := g.KickOff(m)
	if err != nil {
		return err
	}
	state := ComputeLockState(g.now(), kickOff, m.IsCancelled, m.IsLocked)
	m.IsLocked = state.IsLocked
	m.LockTimer = state.LockTimer
	return nil
}

// OpenForPlayers reports whether players may still opt in: the match is
// neither closed nor past its meet time.
func (g *LockGate) OpenForPlayers(m *entity.Match) (bool, error) {
	if m.Closed() {
		return false, nil
	}
	meet, err := At(m.Date, m.MeetTime, g.loc)
	if err != nil {
		return false, err
	}
	return g.now().Before(meet), nil
}

// ValidateSchedule checks that date, meet time and kickoff all parse.
func ValidateSchedule(date, meetTime, kickOff string, loc *time.Location) error {
	if _, err := At(date, meetTime, loc); err != nil {
		return err
	}
	_, err := At(date, kickOff, loc)
	return err
}
