package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
)

const DefaultDirectoryPageSize = 25

type RoomRepository interface {
	CreateRoom(ctx context.Context, room domain.Room) (domain.Room, error)
	GetRoom(ctx context.Context, roomID uuid.UUID) (domain.Room, error)
	ListRooms(ctx context.Context, page Page) ([]domain.Room, error)
	UpdateRoom(ctx context.Context, room domain.Room) (domain.Room, error)
	DeleteRoom(ctx context.Context, roomID uuid.UUID) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error)
	// FindUserByEmail matches case-insensitively.
	FindUserByEmail(ctx context.Context, email string) (domain.User, error)
	ListUsers(ctx context.Context, page Page) ([]domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) (domain.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}
