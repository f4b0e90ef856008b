package sqlite

import "time"

// Le schéma est porté par migrations/ : les tags gorm ne servent qu'au mapping.

type UserModel struct {
	ID             string `gorm:"primaryKey"`
	Name           string `gorm:"not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	Username       string `gorm:"uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null;default:''"`
	ImageURL       *string
	FollowersCount int32 `gorm:"not null;default:0"`
	FollowingCount int32 `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (UserModel) TableName() string { return "users" }

type PostModel struct {
	ID          string   `gorm:"primaryKey"`
	UserID      string   `gorm:"not null;index"`
	Content     string   `gorm:"not null"`
	Images      []string `gorm:"serializer:json"`
	LikesCount  int32    `gorm:"not null;default:0"`
	SharesCount int32    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PostModel) TableName() string { return "posts" }

type CommentModel struct {
	ID        string   `gorm:"primaryKey"`
	PostID    string   `gorm:"not null;index"`
	UserID    string   `gorm:"not null"`
	Content   string   `gorm:"not null"`
	Images    []string `gorm:"serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CommentModel) TableName() string { return "comments" }

type InteractionModel struct {
	ID              string `gorm:"primaryKey"`
	PostID          string `gorm:"not null;index:idx_interaction_edge,unique"`
	UserID          string `gorm:"not null;index:idx_interaction_edge,unique"`
	InteractionType string `gorm:"not null;index:idx_interaction_edge,unique"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (InteractionModel) TableName() string { return "interactions" }

type FollowModel struct {
	ID          string `gorm:"primaryKey"`
	FollowerID  string `gorm:"not null;index:idx_follow_edge,unique"`
	FollowingID string `gorm:"not null;index:idx_follow_edge,unique"`
	CreatedAt   time.Time
}

func (FollowModel) TableName() string { return "follows" }
