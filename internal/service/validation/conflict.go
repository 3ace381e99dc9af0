package validation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
)

type AppointmentLister interface {
	ListAppointmentsForRoomOnDay(ctx context.Context, roomID uuid.UUID, day time.Time) ([]domain.Appointment, error)
}

// ConflictDetector decides whether a candidate interval collides with the
// bookings already stored for the same room.
type ConflictDetector struct {
	appts AppointmentLister
	loc   *time.Location
}

func NewConflictDetector(appts AppointmentLister, loc *time.Location) *ConflictDetector {
	if loc == nil {
		loc = time.UTC
	}
	return &ConflictDetector{appts: appts, loc: loc}
}

// HasConflict scans the room's bookings on the candidate's start day. The
// day bound is only a prefilter: appointments never cross midnight, so every
// booking that can intersect the candidate starts on that day.
//
// Intervals are closed, so an existing booking ending at 10:00 conflicts with
// a candidate starting at 10:00. excludeID (uuid.Nil for none) skips the
// appointment being updated.
func (d *ConflictDetector) HasConflict(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	existing, err := d.appts.ListAppointmentsForRoomOnDay(ctx, roomID, start.In(d.loc))
	if err != nil {
		return false, err
	}

	for _, e := range existing {
		if excludeID != uuid.Nil && e.ID == excludeID {
			continue
		}
		if e.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}
