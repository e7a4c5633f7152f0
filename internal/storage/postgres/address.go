package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/account-service/internal/models"
	"github.com/pribylovaa/account-service/internal/storage"
)

const addressColumns = `id, user_id, local_address, extra_address, local_code,
	is_default, created_at, updated_at`

// SaveAddress сохраняет адрес. Основной адрес заменяет прежний основной.
func (s *Storage) SaveAddress(ctx context.Context, addr *models.Address) error {
	const op = "storage.postgres.SaveAddress"

	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if addr.IsDefault {
			if _, err := tx.Exec(ctx,
				`UPDATE addresses SET is_default = FALSE, updated_at = $2
				 WHERE user_id = $1 AND is_default`,
				addr.UserID, addr.UpdatedAt,
			); err != nil {
				return err
			}
		}

		_, err := tx.Exec(ctx, insertAddressSQL,
			addr.ID,
			addr.UserID,
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

// AddressesByUser возвращает адреса пользователя: основной первым, затем по дате.
func (s *Storage) AddressesByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	const op = "storage.postgres.AddressesByUser"

	rows, err := s.db.Query(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]models.Address, 0, 4)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// AddressByID находит адрес пользователя.
func (s *Storage) AddressByID(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	const op = "storage.postgres.AddressByID"

	row := s.db.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`,
		id, userID,
	)

	a, err := scanAddress(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

// UpdateAddress меняет текст и индекс адреса.
func (s *Storage) UpdateAddress(ctx context.Context, addr *models.Address) error {
	const op = "storage.postgres.UpdateAddress"

	tag, err := s.db.Exec(ctx, `
		UPDATE addresses
		SET local_address = $3, extra_address = $4, local_code = $5, updated_at = $6
		WHERE id = $1 AND user_id = $2
	`, addr.ID, addr.UserID, addr.LocalAddress, addr.ExtraAddress, addr.LocalCode, addr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteAddress удаляет неосновной адрес. Основной адрес не удаляется и
// даёт storage.ErrNotFound.
func (s *Storage) DeleteAddress(ctx context.Context, userID, id uuid.UUID) error {
	const op = "storage.postgres.DeleteAddress"

	tag, err := s.db.Exec(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2 AND NOT is_default`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DefaultAddress возвращает основной адрес пользователя.
func (s *Storage) DefaultAddress(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	const op = "storage.postgres.DefaultAddress"

	row := s.db.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 AND is_default`,
		userID,
	)

	a, err := scanAddress(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

func scanAddress(row pgx.Row) (*models.Address, error) {
	var a models.Address

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.LocalAddress,
		&a.ExtraAddress,
		&a.LocalCode,
		&a.IsDefault,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}

	return &a, nil
}
