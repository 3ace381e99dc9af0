package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"github.com/lsfernandes92/desafio-ninja/internal/domain"
	"github.com/lsfernandes92/desafio-ninja/internal/store"
)

const (
	pgExclusionViolation  = "23P01"
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	constraintNoOverlap       = "appointments_no_overlap"
	constraintAppointmentPKey = "appointments_pkey"
	constraintUserEmail       = "users_email_key"
)

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type bookingTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) InRoomTransaction(ctx context.Context, roomID uuid.UUID, fn func(ctx context.Context, tx store.BookingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockRoomBookings(ctx, tx, roomID); err != nil {
			return err
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

func lockRoomBookings(ctx context.Context, tx bun.Tx, roomID uuid.UUID) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", roomLockKey(roomID)).Exec(ctx)
	return err
}

func roomLockKey(roomID uuid.UUID) string {
	return "room_bookings:" + roomID.String()
}

func (r *AppointmentRepo) Get(ctx context.Context, appointmentID uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.NewSelect().
		Model(&appt).
		Where("id = ?", appointmentID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Appointment{}, mapReadError(err)
	}
	return appt, nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, userID, appointmentID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("user_id = ?", userID).
		Where("id = ?", appointmentID).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *AppointmentRepo) ListByUser(ctx context.Context, userID uuid.UUID, page store.Page) ([]domain.Appointment, error) {
	if err := requireRow(ctx, r.db, (*domain.User)(nil), userID); err != nil {
		return nil, err
	}
	return r.listBy(ctx, "user_id", userID, page)
}

func (r *AppointmentRepo) ListByRoom(ctx context.Context, roomID uuid.UUID, page store.Page) ([]domain.Appointment, error) {
	if err := requireRow(ctx, r.db, (*domain.Room)(nil), roomID); err != nil {
		return nil, err
	}
	return r.listBy(ctx, "room_id", roomID, page)
}

func (r *AppointmentRepo) listBy(ctx context.Context, column string, id uuid.UUID, page store.Page) ([]domain.Appointment, error) {
	page = page.Normalize(store.DefaultAppointmentPageSize)

	rows := make([]domain.Appointment, 0, page.Size)
	err := r.db.NewSelect().
		Model(&rows).
		Where("? = ?", bun.Ident(column), id).
		OrderExpr("start_time ASC, id ASC").
		Limit(page.Size).
		Offset(page.Offset()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (t bookingTx) FindRoom(ctx context.Context, roomID uuid.UUID) (domain.Room, error) {
	var room domain.Room
	err := t.tx.NewSelect().Model(&room).Where("id = ?", roomID).Limit(1).Scan(ctx)
	if err != nil {
		return domain.Room{}, mapReadError(err)
	}
	return room, nil
}

func (t bookingTx) FindUser(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var user domain.User
	err := t.tx.NewSelect().Model(&user).Where("id = ?", userID).Limit(1).Scan(ctx)
	if err != nil {
		return domain.User{}, mapReadError(err)
	}
	return user, nil
}

func (t bookingTx) ListAppointmentsForRoomOnDay(ctx context.Context, roomID uuid.UUID, day time.Time) ([]domain.Appointment, error) {
	from, to := domain.DayBounds(day)

	var rows []domain.Appointment
	err := t.tx.NewSelect().
		Model(&rows).
		Where("room_id = ?", roomID).
		Where("start_time >= ?", from).
		Where("start_time < ?", to).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (t bookingTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:        appt.ID,
		UserID:    appt.UserID,
		RoomID:    appt.RoomID,
		Title:     appt.Title,
		Notes:     appt.Notes,
		StartTime: appt.StartTime,
		EndTime:   appt.EndTime,
	}

	if _, err := t.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, mapWriteError(err)
	}
	return m, nil
}

func (t bookingTx) UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt

	res, err := t.tx.NewUpdate().
		Model(&m).
		Column("room_id", "title", "notes", "start_time", "end_time", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, mapWriteError(err)
	}
	if err := requireAffected(res); err != nil {
		return domain.Appointment{}, err
	}
	return m, nil
}

// mapWriteError translates constraint violations into store errors.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgExclusionViolation && pgErr.ConstraintName == constraintNoOverlap:
		return store.ErrConflict
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintAppointmentPKey:
		return store.ErrIdempotencyConflict
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintUserEmail:
		return store.ErrEmailTaken
	case pgErr.Code == pgForeignKeyViolation:
		return store.ErrNotFound
	}
	return err
}

func mapReadError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func requireRow(ctx context.Context, db bun.IDB, model any, id uuid.UUID) error {
	exists, err := db.NewSelect().Model(model).Where("id = ?", id).Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}
	return nil
}
