package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/common"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) error {

	// Upsert keyed by email; created_at survives a re-signup.
	query :=
		`INSERT INTO users (email, password_hash, profile_name, image_url, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (email) DO UPDATE
		 SET password_hash = EXCLUDED.password_hash,
		     profile_name = EXCLUDED.profile_name,
		     image_url = EXCLUDED.image_url
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.Email, user.PasswordHash, user.ProfileName, user.ImageURL, user.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query :=
		`SELECT email, password_hash, profile_name, image_url, created_at FROM users
		 WHERE email = $1
		 `

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.Email, &user.PasswordHash, &user.ProfileName, &user.ImageURL, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdateImageURL(ctx context.Context, email string, imageURL string) error {
	query :=
		`UPDATE users SET image_url = $2
		 WHERE email = $1
		 `

	// Zero affected rows means no record for the email; kept as a no-op.
	_, err := r.db.ExecContext(ctx, query, email, imageURL)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
