package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID          string
	UserID      string
	Content     string
	Images      []string
	LikesCount  int32
	SharesCount int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Comment struct {
	ID        string
	PostID    string
	UserID    string
	Content   string
	Images    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewPost(userID, content string, images []string) (*Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	now := time.Now().UTC()
	return &Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		Images:    images,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func NewComment(postID, userID, content string, images []string) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	now := time.Now().UTC()
	return &Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		Images:    images,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Page décrit une pagination offset/limit (bornée côté service).
type Page struct {
	Limit  int
	Offset int
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize applique les bornes : limit par défaut 20, plafonné à 100, offset >= 0.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
