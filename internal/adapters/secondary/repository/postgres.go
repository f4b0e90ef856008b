package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

// Codes PostgreSQL utiles (https://www.postgresql.org/docs/current/errcodes-appendix.html)
const (
	codeUniqueViolation = "23505"
)

// Noms des contraintes déclarées dans migrations/
const (
	constraintUsersEmail    = "users_email_key"
	constraintUsersUsername = "users_username_key"
)

const userColumns = `id, name, email, username, password_hash, image_url, followers_count, following_count, created_at, updated_at`

// PostgresRepo implémente ports.Store au-dessus d'un pool pgx.
type PostgresRepo struct {
	db *pgxpool.Pool
}

// NewPostgresRepo attend un pool déjà configuré (tracer otelpgx, taille...).
func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: pool}
}

// --- USERS ---

func (r *PostgresRepo) Save(ctx context.Context, user *domain.User) error {
	q := `
		INSERT INTO users (id, name, email, username, password_hash, image_url, followers_count, following_count, created_at, updated_at)
		VALUES (@id, @name, @email, @username, @password_hash, @image_url, 0, 0, @created_at, @updated_at)
	`
	args := pgx.NamedArgs{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"username":      user.Username,
		"password_hash": user.PasswordHash,
		"image_url":     user.ImageURL,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return r.handleError("save user", err)
	}
	return nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, "get user by id", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, "get user by email", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, "get user by username", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// --- HELPERS ---

func (r *PostgresRepo) getUser(ctx context.Context, op, q string, arg any) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound // Traduction technique -> Domaine
		}
		return nil, domain.NewStorageError(op, err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Username, &u.PasswordHash, &u.ImageURL,
		&u.FollowersCount, &u.FollowingCount, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]*domain.User, error) {
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// handleError traduit les codes d'erreur PostgreSQL en erreurs du Domaine
func (r *PostgresRepo) handleError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		switch pgErr.ConstraintName {
		case constraintUsersEmail:
			return domain.ErrEmailAlreadyExists
		case constraintUsersUsername:
			return domain.ErrUsernameTaken
		}
	}
	return domain.NewStorageError(op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
