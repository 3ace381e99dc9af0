package validation

import (
	"time"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
)

const (
	DefaultOpenHour  = 9
	DefaultCloseHour = 17
)

// Policy holds the static business rules for a single interval. Hours are
// whole hour-of-day values, both inclusive, so with the defaults 17:59 is
// accepted and 18:00 is not.
type Policy struct {
	Location  *time.Location
	OpenHour  int
	CloseHour int
}

func DefaultPolicy() Policy {
	return Policy{Location: time.UTC, OpenHour: DefaultOpenHour, CloseHour: DefaultCloseHour}
}

// Evaluate checks one candidate interval against the policy. A zero start or
// end is treated as absent: it is reported as blank and every check that needs
// it is skipped. All other checks run and accumulate in a fixed order:
// presence, chronology, weekday, business hours, same day, future.
func (p Policy) Evaluate(start, end, now time.Time) domain.Violations {
	var out domain.Violations

	hasStart := !start.IsZero()
	hasEnd := !end.IsZero()
	start = p.local(start)
	end = p.local(end)

	if !hasStart {
		out.Add(domain.FieldStartTime, domain.MsgBlank)
	}
	if !hasEnd {
		out.Add(domain.FieldEndTime, domain.MsgBlank)
	}

	if hasEnd && (!hasStart || !start.Before(end)) {
		out.Add(domain.FieldStartTime, domain.MsgLessThanEnd)
	}
	if hasStart && (!hasEnd || !end.After(start)) {
		out.Add(domain.FieldEndTime, domain.MsgGreaterThanStart)
	}

	if hasStart && domain.IsWeekend(start) {
		out.Add(domain.FieldStartTime, domain.MsgWeekDays)
	}
	if hasEnd && domain.IsWeekend(end) {
		out.Add(domain.FieldEndTime, domain.MsgWeekDays)
	}

	if hasStart && !p.withinBusinessHours(start) {
		out.Add(domain.FieldStartTime, domain.MsgBusinessHours)
	}
	if hasEnd && !p.withinBusinessHours(end) {
		out.Add(domain.FieldEndTime, domain.MsgBusinessHours)
	}

	if !hasStart || !hasEnd {
		return out
	}

	if !domain.SameDate(start, end) {
		out.Add(domain.FieldAppointment, domain.MsgSameDay)
	}
	if start.Before(now) || end.Before(now) {
		out.Add(domain.FieldAppointment, domain.MsgFutureDate)
	}

	return out
}

func (p Policy) withinBusinessHours(t time.Time) bool {
	h := t.Hour()
	return h >= p.OpenHour && h <= p.CloseHour
}

func (p Policy) local(t time.Time) time.Time {
	if p.Location == nil || t.IsZero() {
		return t
	}
	return t.In(p.Location)
}
