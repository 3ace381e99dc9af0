package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
)

type listerFunc func(ctx context.Context, roomID uuid.UUID, day time.Time) ([]domain.Appointment, error)

func (f listerFunc) ListAppointmentsForRoomOnDay(ctx context.Context, roomID uuid.UUID, day time.Time) ([]domain.Appointment, error) {
	return f(ctx, roomID, day)
}

func TestConflictDetector_Intersections(t *testing.T) {
	roomID := uuid.New()
	existing := domain.Appointment{ID: uuid.New(), RoomID: roomID, StartTime: at(27, 10, 0), EndTime: at(27, 12, 0)}
	lister := listerFunc(func(ctx context.Context, id uuid.UUID, day time.Time) ([]domain.Appointment, error) {
		return []domain.Appointment{existing}, nil
	})
	d := NewConflictDetector(lister, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{name: "starts inside", start: at(27, 11, 0), end: at(27, 13, 0), want: true},
		{name: "ends inside", start: at(27, 9, 0), end: at(27, 11, 0), want: true},
		{name: "inside", start: at(27, 10, 30), end: at(27, 11, 30), want: true},
		{name: "contains", start: at(27, 9, 0), end: at(27, 13, 0), want: true},
		{name: "touches end", start: at(27, 12, 0), end: at(27, 13, 0), want: true},
		{name: "touches start", start: at(27, 9, 0), end: at(27, 10, 0), want: true},
		{name: "before", start: at(27, 9, 0), end: at(27, 9, 59), want: false},
		{name: "after", start: at(27, 12, 1), end: at(27, 13, 0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.HasConflict(context.Background(), roomID, tt.start, tt.end, uuid.Nil)
			if err != nil {
				t.Fatalf("HasConflict error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("HasConflict = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConflictDetector_ExcludesOwnAppointment(t *testing.T) {
	roomID := uuid.New()
	self := domain.Appointment{ID: uuid.New(), RoomID: roomID, StartTime: at(27, 10, 0), EndTime: at(27, 12, 0)}
	lister := listerFunc(func(ctx context.Context, id uuid.UUID, day time.Time) ([]domain.Appointment, error) {
		return []domain.Appointment{self}, nil
	})

	got, err := NewConflictDetector(lister, time.UTC).HasConflict(context.Background(), roomID, self.StartTime, self.EndTime, self.ID)
	if err != nil {
		t.Fatalf("HasConflict error: %v", err)
	}
	if got {
		t.Fatalf("HasConflict = true, want false for the excluded appointment")
	}
}

func TestConflictDetector_QueriesStartDayInLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}
	roomID := uuid.New()

	var gotRoom uuid.UUID
	var gotDay time.Time
	lister := listerFunc(func(ctx context.Context, id uuid.UUID, day time.Time) ([]domain.Appointment, error) {
		gotRoom = id
		gotDay = day
		return nil, nil
	})

	// 01:00 UTC on the 28th is still the 27th in Sao Paulo.
	start := time.Date(2022, 1, 28, 1, 0, 0, 0, time.UTC)
	if _, err := NewConflictDetector(lister, loc).HasConflict(context.Background(), roomID, start, start.Add(time.Hour), uuid.Nil); err != nil {
		t.Fatalf("HasConflict error: %v", err)
	}
	if gotRoom != roomID {
		t.Fatalf("room = %s, want %s", gotRoom, roomID)
	}
	if gotDay.Location() != loc || gotDay.Day() != 27 {
		t.Fatalf("day = %v, want the 27th in %s", gotDay, loc)
	}
}

func TestConflictDetector_PropagatesListError(t *testing.T) {
	boom := errors.New("boom")
	lister := listerFunc(func(ctx context.Context, id uuid.UUID, day time.Time) ([]domain.Appointment, error) {
		return nil, boom
	})

	_, err := NewConflictDetector(lister, nil).HasConflict(context.Background(), uuid.New(), at(27, 10, 0), at(27, 11, 0), uuid.Nil)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
}
