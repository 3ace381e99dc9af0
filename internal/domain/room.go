package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Room struct {
	bun.BaseModel `bun:"table:rooms" json:"-"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

func (r *Room) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	return stampModel(&r.ID, &r.CreatedAt, &r.UpdatedAt, query)
}
