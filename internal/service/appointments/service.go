package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/service/validation"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

const (
	FieldIdempotencyKey  = "idempotency_key"
	maxIdempotencyKeyLen = 256
)

type Service struct {
	repo      store.AppointmentRepository
	validator *validation.Validator
	now       func() time.Time
}

func NewService(repo store.AppointmentRepository, validator *validation.Validator) *Service {
	return &Service{repo: repo, validator: validator, now: time.Now}
}

type CreateInput struct {
	UserID         uuid.UUID
	RoomID         uuid.UUID
	Title          string
	Notes          string
	StartTime      time.Time
	EndTime        time.Time
	IdempotencyKey string
}

// Create validates the candidate and books it. A rejected candidate comes
// back as domain.Violations.
//
// With an idempotency key the id is derived from the user and the key, so
// a retried request finds the stored appointment and gets it back unchanged.
// Reusing a key for a different payload fails with store.ErrIdempotencyConflict.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Appointment, error) {
	c := validation.Candidate{
		UserID:    in.UserID,
		RoomID:    in.RoomID,
		Title:     in.Title,
		Notes:     in.Notes,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
	}.Normalize()

	var id uuid.UUID
	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if len(key) > maxIdempotencyKeyLen {
			return domain.Appointment{}, domain.Violations{{Field: FieldIdempotencyKey, Message: domain.MsgTooLong(maxIdempotencyKeyLen)}}
		}
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte("conference:create_appointment:"+in.UserID.String()+":"+key))

		appt, found, err := s.replay(ctx, id, c)
		if err != nil || found {
			return appt, err
		}
		// A same-key twin committed in the meantime must not count as a conflict.
		c.ID = id
	}

	appt, err := s.book(ctx, c, func(ctx context.Context, tx store.BookingTx) (domain.Appointment, error) {
		return tx.InsertAppointment(ctx, domain.Appointment{
			ID:        id,
			UserID:    c.UserID,
			RoomID:    c.RoomID,
			Title:     c.Title,
			Notes:     c.Notes,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
		})
	})
	if id != uuid.Nil && lostInsertRace(err) {
		if appt, found, rerr := s.replay(ctx, id, c); rerr != nil || found {
			return appt, rerr
		}
	}
	return appt, err
}

// lostInsertRace reports whether err can come from a concurrent request with
// the same idempotency key winning the insert: either the primary key or the
// overlap constraint fires, depending on which index Postgres checks first.
func lostInsertRace(err error) bool {
	if errors.Is(err, store.ErrIdempotencyConflict) {
		return true
	}
	var v domain.Violations
	return errors.As(err, &v) && v.Has(domain.FieldAppointment, domain.MsgAlreadyTook)
}

// replay looks up an appointment previously created under id.
func (s *Service) replay(ctx context.Context, id uuid.UUID, c validation.Candidate) (domain.Appointment, bool, error) {
	existing, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Appointment{}, false, nil
	}
	if err != nil {
		return domain.Appointment{}, false, err
	}
	if !samePayload(existing, c) {
		return domain.Appointment{}, false, store.ErrIdempotencyConflict
	}
	return existing, true, nil
}

func samePayload(a domain.Appointment, c validation.Candidate) bool {
	return a.UserID == c.UserID &&
		a.RoomID == c.RoomID &&
		a.Title == c.Title &&
		a.Notes == c.Notes &&
		a.StartTime.Equal(c.StartTime) &&
		a.EndTime.Equal(c.EndTime)
}

// UpdateInput patches an appointment. Nil fields keep the stored value.
type UpdateInput struct {
	UserID        uuid.UUID
	AppointmentID uuid.UUID
	RoomID        *uuid.UUID
	Title         *string
	Notes         *string
	StartTime     *time.Time
	EndTime       *time.Time
}

// Update applies the patch and re-runs the whole validation pipeline, with
// the appointment itself excluded from conflict detection. An appointment
// owned by someone else is reported as store.ErrNotFound.
func (s *Service) Update(ctx context.Context, in UpdateInput) (domain.Appointment, error) {
	if in.AppointmentID == uuid.Nil {
		return domain.Appointment{}, store.ErrNotFound
	}

	current, err := s.repo.Get(ctx, in.AppointmentID)
	if err != nil {
		return domain.Appointment{}, err
	}
	if current.UserID != in.UserID {
		return domain.Appointment{}, store.ErrNotFound
	}

	c := validation.Candidate{
		ID:        current.ID,
		UserID:    current.UserID,
		RoomID:    current.RoomID,
		Title:     current.Title,
		Notes:     current.Notes,
		StartTime: current.StartTime,
		EndTime:   current.EndTime,
	}
	if in.RoomID != nil {
		c.RoomID = *in.RoomID
	}
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	if in.StartTime != nil {
		c.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		c.EndTime = *in.EndTime
	}
	c = c.Normalize()

	return s.book(ctx, c, func(ctx context.Context, tx store.BookingTx) (domain.Appointment, error) {
		next := current
		next.RoomID = c.RoomID
		next.Title = c.Title
		next.Notes = c.Notes
		next.StartTime = c.StartTime
		next.EndTime = c.EndTime
		return tx.UpdateAppointment(ctx, next)
	})
}

// book runs validation and the write in one room transaction. A write that
// loses a race to a concurrent booking is retried once with a fresh
// validation pass; a second loss is reported as the slot being taken.
func (s *Service) book(ctx context.Context, c validation.Candidate, write func(ctx context.Context, tx store.BookingTx) (domain.Appointment, error)) (domain.Appointment, error) {
	for attempt := 0; ; attempt++ {
		var out domain.Appointment
		err := s.repo.InRoomTransaction(ctx, c.RoomID, func(ctx context.Context, tx store.BookingTx) error {
			violations, err := s.validator.Validate(ctx, tx, c, s.now())
			if err != nil {
				return err
			}
			if err := violations.Err(); err != nil {
				return err
			}
			out, err = write(ctx, tx)
			return err
		})
		if errors.Is(err, store.ErrConflict) {
			if attempt == 0 {
				continue
			}
			return domain.Appointment{}, domain.Violations{{Field: domain.FieldAppointment, Message: domain.MsgAlreadyTook}}
		}
		if err != nil {
			return domain.Appointment{}, err
		}
		return out, nil
	}
}

func (s *Service) Delete(ctx context.Context, userID, appointmentID uuid.UUID) error {
	if userID == uuid.Nil || appointmentID == uuid.Nil {
		return store.ErrNotFound
	}
	return s.repo.Delete(ctx, userID, appointmentID)
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, page store.Page) ([]domain.Appointment, error) {
	return s.repo.ListByUser(ctx, userID, page.Normalize(store.DefaultAppointmentPageSize))
}

func (s *Service) ListForRoom(ctx context.Context, roomID uuid.UUID, page store.Page) ([]domain.Appointment, error) {
	return s.repo.ListByRoom(ctx, roomID, page.Normalize(store.DefaultAppointmentPageSize))
}

// Location is the zone booking rules are evaluated in.
func (s *Service) Location() *time.Location {
	return s.validator.Policy().Location
}
