package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

type UserRepo struct {
	db *bun.DB
}

func NewUserRepo(db *bun.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	m := domain.User{ID: user.ID, Name: user.Name, Email: user.Email}
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.User{}, mapWriteError(err)
	}
	return m, nil
}

func (r *UserRepo) GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var user domain.User
	err := r.db.NewSelect().Model(&user).Where("id = ?", userID).Limit(1).Scan(ctx)
	if err != nil {
		return domain.User{}, mapReadError(err)
	}
	return user, nil
}

func (r *UserRepo) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User
	err := r.db.NewSelect().
		Model(&user).
		Where("lower(email) = ?", domain.NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.User{}, mapReadError(err)
	}
	return user, nil
}

func (r *UserRepo) ListUsers(ctx context.Context, page store.Page) ([]domain.User, error) {
	page = page.Normalize(store.DefaultDirectoryPageSize)

	rows := make([]domain.User, 0, page.Size)
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

func (r *UserRepo) UpdateUser(ctx context.Context, user domain.User) (domain.User, error) {
	m := user
	res, err := r.db.NewUpdate().
		Model(&m).
		Column("name", "email", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.User{}, mapWriteError(err)
	}
	if err := requireAffected(res); err != nil {
		return domain.User{}, err
	}
	return m, nil
}

func (r *UserRepo) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.User)(nil)).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
