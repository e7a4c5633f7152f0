package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/account-service/internal/models"
	"github.com/pribylovaa/account-service/internal/storage"
)

const userColumns = `id, email, password_hash, name, nickname, phone, birthday,
	status, profile_image_url, created_at, updated_at`

const insertAddressSQL = `
	INSERT INTO addresses(id, user_id, local_address, extra_address, local_code,
		is_default, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// CreateAccount сохраняет пользователя и его основной адрес в одной транзакции.
func (s *Storage) CreateAccount(ctx context.Context, user *models.User, addr *models.Address) error {
	const op = "storage.postgres.CreateAccount"

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users(`+userColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`,
			user.ID,
			user.Email,
			user.PasswordHash,
			user.Name,
			user.Nickname,
			user.Phone,
			nullableDate(user.Birthday),
			int16(user.Status),
			user.ProfileImageURL,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			return mapUniqueViolation(err)
		}

		if addr == nil {
			return nil
		}

		_, err = tx.Exec(ctx, insertAddressSQL,
			addr.ID,
			user.ID,
			addr.LocalAddress,
			addr.ExtraAddress,
			addr.LocalCode,
			addr.IsDefault,
			addr.CreatedAt,
			addr.UpdatedAt,
		)
		return mapUniqueViolation(err)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UserByEmail находит пользователя по email.
func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.UserByEmail"

	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

// UserByPhone находит последнего зарегистрированного пользователя с номером.
func (s *Storage) UserByPhone(ctx context.Context, phone string) (*models.User, error) {
	const op = "storage.postgres.UserByPhone"

	row := s.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE phone = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, phone)

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

// UserByNickname находит пользователя по никнейму.
func (s *Storage) UserByNickname(ctx context.Context, nickname string) (*models.User, error) {
	const op = "storage.postgres.UserByNickname"

	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE nickname = $1`, nickname)

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

// UpdatePassword заменяет хэш пароля.
func (s *Storage) UpdatePassword(ctx context.Context, id uuid.UUID, hash string, at time.Time) error {
	const op = "storage.postgres.UpdatePassword"

	tag, err := s.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, hash, at,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// UpdateProfile обновляет изменяемые поля профиля.
func (s *Storage) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate, at time.Time) error {
	const op = "storage.postgres.UpdateProfile"

	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET name = $2, nickname = $3, phone = $4, birthday = $5, updated_at = $6
		WHERE id = $1
	`, id, upd.Name, upd.Nickname, upd.Phone, nullableDate(upd.Birthday), at)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapUniqueViolation(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// UpdateStatus меняет статус учётной записи.
func (s *Storage) UpdateStatus(ctx context.Context, id uuid.UUID, status models.UserStatus, at time.Time) error {
	const op = "storage.postgres.UpdateStatus"

	tag, err := s.db.Exec(ctx,
		`UPDATE users SET status = $2, updated_at = $3 WHERE id = $1`,
		id, int16(status), at,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u        models.User
		birthday *time.Time
		status   int16
	)

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Nickname,
		&u.Phone,
		&birthday,
		&status,
		&u.ProfileImageURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}

	u.Status = models.UserStatus(status)
	if birthday != nil {
		u.Birthday = *birthday
	}

	return &u, nil
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
