package sqlite

import (
	"context"
	"errors"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

// Pragmas appliqués à chaque connexion ouverte par modernc.
const dsnPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"

// Repository implémente ports.Store au-dessus de gorm + SQLite (dev local, tests).
type Repository struct {
	db *gorm.DB
}

// Open ouvre la base avec UNE seule connexion : SQLite sérialise déjà les écritures,
// et les transactions concurrentes attendent leur tour dans le pool database/sql.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path + "?" + dsnPragmas,
	}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- USERS ---

func (r *Repository) Save(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(toUserModel(user)).Error; err != nil {
		return userError("save user", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, "get user by id", "id = ?", id)
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, "get user by email", "email = ?", email)
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, "get user by username", "username = ?", username)
}

func (r *Repository) getUser(ctx context.Context, op, where string, arg any) (*domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where(where, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.NewStorageError(op, err)
	}
	return m.toDomain(), nil
}

// --- POSTS ---

func (r *Repository) SavePost(ctx context.Context, post *domain.Post) error {
	m := PostModel{
		ID:        post.ID,
		UserID:    post.UserID,
		Content:   post.Content,
		Images:    post.Images,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.NewStorageError("save post", err)
	}
	return nil
}

func (r *Repository) FindPost(ctx context.Context, postID string) (*domain.Post, error) {
	var m PostModel
	if err := r.db.WithContext(ctx).Where("id = ?", postID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, domain.NewStorageError("find post", err)
	}
	return m.toDomain(), nil
}

func (r *Repository) ListPosts(ctx context.Context, page domain.Page) ([]*domain.Post, error) {
	rows := make([]PostModel, 0)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, domain.NewStorageError("list posts", err)
	}
	return postsToDomain(rows), nil
}

func (r *Repository) ListPostsByAuthor(ctx context.Context, userID string, page domain.Page) ([]*domain.Post, error) {
	rows := make([]PostModel, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, domain.NewStorageError("list posts by author", err)
	}
	return postsToDomain(rows), nil
}

// --- COMMENTS ---

func (r *Repository) SaveComment(ctx context.Context, c *domain.Comment) error {
	m := CommentModel{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Content:   c.Content,
		Images:    c.Images,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.NewStorageError("save comment", err)
	}
	return nil
}

func (r *Repository) ListComments(ctx context.Context, postID string) ([]*domain.Comment, error) {
	rows := make([]CommentModel, 0)
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, domain.NewStorageError("list comments", err)
	}

	out := make([]*domain.Comment, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}

// --- ERREURS ---

func isUniqueViolation(err error) bool {
	var se *moderncsqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	// Code de base seul (SQLITE_CONSTRAINT) : on retombe sur le message
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func userError(op string, err error) error {
	if isUniqueViolation(err) {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "users.email"):
			return domain.ErrEmailAlreadyExists
		case strings.Contains(msg, "users.username"):
			return domain.ErrUsernameTaken
		}
	}
	return domain.NewStorageError(op, err)
}
