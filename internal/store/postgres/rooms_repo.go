package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

type RoomRepo struct {
	db *bun.DB
}

func NewRoomRepo(db *bun.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

func (r *RoomRepo) CreateRoom(ctx context.Context, room domain.Room) (domain.Room, error) {
	m := domain.Room{ID: room.ID, Name: room.Name}
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Room{}, mapWriteError(err)
	}
	return m, nil
}

func (r *RoomRepo) GetRoom(ctx context.Context, roomID uuid.UUID) (domain.Room, error) {
	var room domain.Room
	err := r.db.NewSelect().Model(&room).Where("id = ?", roomID).Limit(1).Scan(ctx)
	if err != nil {
		return domain.Room{}, mapReadError(err)
	}
	return room, nil
}

func (r *RoomRepo) ListRooms(ctx context.Context, page store.Page) ([]domain.Room, error) {
	page = page.Normalize(store.DefaultDirectoryPageSize)

	rows := make([]domain.Room, 0, page.Size)
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("created_at ASC, id ASC").
		Limit(page.Size).
		Offset(page.Offset()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RoomRepo) UpdateRoom(ctx context.Context, room domain.Room) (domain.Room, error) {
	m := room
	res, err := r.db.NewUpdate().
		Model(&m).
		Column("name", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Room{}, mapWriteError(err)
	}
	if err := requireAffected(res); err != nil {
		return domain.Room{}, err
	}
	return m, nil
}

func (r *RoomRepo) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Room)(nil)).
		Where("id = ?", roomID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
