package validation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

// Lookup is the storage surface a validation pass reads from. Inside a write
// it is the open booking transaction.
type Lookup interface {
	FindRoom(ctx context.Context, roomID uuid.UUID) (domain.Room, error)
	FindUser(ctx context.Context, userID uuid.UUID) (domain.User, error)
	AppointmentLister
}

// Candidate is an appointment that has not been accepted yet. ID is the
// row it will occupy, known on update and for idempotent creates; that row
// is excluded from conflict detection.
type Candidate struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	RoomID    uuid.UUID
	Title     string
	Notes     string
	StartTime time.Time
	EndTime   time.Time
}

// Normalize trims text and truncates both times to the minute.
func (c Candidate) Normalize() Candidate {
	c.Title = strings.TrimSpace(c.Title)
	c.Notes = strings.TrimSpace(c.Notes)
	c.StartTime = domain.TruncateToMinute(c.StartTime)
	c.EndTime = domain.TruncateToMinute(c.EndTime)
	return c
}

type Validator struct {
	policy Policy
}

func NewValidator(policy Policy) *Validator {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	return &Validator{policy: policy}
}

func (v *Validator) Policy() Policy {
	return v.policy
}

// Validate runs the full pipeline over c and returns every violation found.
// Violations are not an error here: err is only set when the lookup fails.
func (v *Validator) Validate(ctx context.Context, lookup Lookup, c Candidate, now time.Time) (domain.Violations, error) {
	c = c.Normalize()

	out := CheckFields(appointmentFields{Title: c.Title, Notes: c.Notes})

	userOK, err := exists(ctx, c.UserID, lookup.FindUser)
	if err != nil {
		return nil, err
	}
	if !userOK {
		out.Add(domain.FieldUser, domain.MsgMustExist)
	}

	roomOK, err := exists(ctx, c.RoomID, lookup.FindRoom)
	if err != nil {
		return nil, err
	}
	if !roomOK {
		out.Add(domain.FieldRoom, domain.MsgMustExist)
	}

	out = append(out, v.policy.Evaluate(c.StartTime, c.EndTime, now)...)

	if !roomOK || c.StartTime.IsZero() || c.EndTime.IsZero() || !c.StartTime.Before(c.EndTime) {
		return out, nil
	}

	conflict, err := NewConflictDetector(lookup, v.policy.Location).HasConflict(ctx, c.RoomID, c.StartTime, c.EndTime, c.ID)
	if err != nil {
		return nil, err
	}
	if conflict {
		out.Add(domain.FieldAppointment, domain.MsgAlreadyTook)
	}
	return out, nil
}

func exists[T any](ctx context.Context, id uuid.UUID, find func(context.Context, uuid.UUID) (T, error)) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	if _, err := find(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
