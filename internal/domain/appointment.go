package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid"`
	RoomID    uuid.UUID `bun:"room_id,notnull,type:uuid"`
	Title     string    `bun:"title,notnull"`
	Notes     string    `bun:"notes,notnull"`
	StartTime time.Time `bun:"start_time,notnull"`
	EndTime   time.Time `bun:"end_time,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Overlaps reports whether a and the closed interval [start, end] share at
// least one instant. Touching endpoints overlap.
func (a Appointment) Overlaps(start, end time.Time) bool {
	return !start.After(a.EndTime) && !a.StartTime.After(end)
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampModel(&a.ID, &a.CreatedAt, &a.UpdatedAt, query)
}

// stampModel assigns a v7 id and timestamps on insert and bumps UpdatedAt on update.
func stampModel(id *uuid.UUID, createdAt, updatedAt *time.Time, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if *id == uuid.Nil {
			v, err := uuid.NewV7()
			if err != nil {
				return err
			}
			*id = v
		}
		if createdAt.IsZero() {
			*createdAt = now
		}
		if updatedAt.IsZero() {
			*updatedAt = now
		}
	case *bun.UpdateQuery:
		*updatedAt = now
	}
	return nil
}
