package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "safari/internal/config"
	intdb "safari/internal/db"
	"safari/internal/domain"
	"safari/internal/domain/models"
)

type AdminRepo struct {
	DB *sql.DB
}

func (r AdminRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r AdminRepo) GetByEmail(ctx context.Context, email string) (models.Admin, error) {
	var a models.Admin
	err := r.db().QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, status
		FROM admins
		WHERE email = ?
		LIMIT 1`, strings.ToLower(strings.TrimSpace(email)),
	).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Admin{}, domain.NotFoundError{Resource: "admin", Err: err}
	}
	return a, err
}

func (r AdminRepo) Create(ctx context.Context, a models.Admin) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO admins (name, email, password_hash, role, status)
		VALUES (?, ?, ?, ?, ?)`,
		a.Name, strings.ToLower(strings.TrimSpace(a.Email)), a.PasswordHash, a.Role, a.Status,
	)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "admin", Msg: "email already registered", Err: err}
		}
		return 0, err
	}
	return res.LastInsertId()
}
