package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
)

const DefaultAppointmentPageSize = 5

type AppointmentRepository interface {
	// InRoomTransaction runs fn in a transaction that holds the booking lock
	// for roomID, so a conflict check and the write that follows it are
	// atomic with respect to other writers for the same room.
	InRoomTransaction(ctx context.Context, roomID uuid.UUID, fn func(ctx context.Context, tx BookingTx) error) error

	Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error)
	// Delete removes the appointment only when it belongs to userID.
	Delete(ctx context.Context, userID, appointmentID uuid.UUID) error
	// ListByUser and ListByRoom order by start time and return ErrNotFound
	// when the parent row does not exist.
	ListByUser(ctx context.Context, userID uuid.UUID, page Page) ([]domain.Appointment, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID, page Page) ([]domain.Appointment, error)
}

// BookingTx is the storage surface seen by the validation pipeline and the
// write that follows it.
type BookingTx interface {
	FindRoom(ctx context.Context, roomID uuid.UUID) (domain.Room, error)
	FindUser(ctx context.Context, userID uuid.UUID) (domain.User, error)
	// ListAppointmentsForRoomOnDay returns the room's appointments whose
	// start_time falls on the calendar day of day, in day's location.
	ListAppointmentsForRoomOnDay(ctx context.Context, roomID uuid.UUID, day time.Time) ([]domain.Appointment, error)
	InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}
