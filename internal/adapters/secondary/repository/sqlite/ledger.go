package sqlite

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

var errCounterTargetMissing = errors.New("counter target row missing")

var interactionCounters = map[domain.RelationKind]string{
	domain.KindLike:  "likes_count",
	domain.KindShare: "shares_count",
}

func (r *Repository) InsertInteraction(ctx context.Context, edge *domain.Edge) error {
	column, ok := interactionCounters[edge.Kind]
	if !ok {
		return domain.ErrInvalidRelationship
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := InteractionModel{
			ID:              edge.ID,
			PostID:          edge.TargetID,
			UserID:          edge.ActorID,
			InteractionType: string(edge.Kind),
			CreatedAt:       edge.CreatedAt,
			UpdatedAt:       edge.CreatedAt,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return bump(tx, &PostModel{}, edge.TargetID, column)
	})
	return ledgerError("insert "+string(edge.Kind), err)
}

func (r *Repository) InsertFollow(ctx context.Context, edge *domain.Edge) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := FollowModel{
			ID:          edge.ID,
			FollowerID:  edge.ActorID,
			FollowingID: edge.TargetID,
			CreatedAt:   edge.CreatedAt,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		if err := bump(tx, &UserModel{}, edge.ActorID, "following_count"); err != nil {
			return err
		}
		return bump(tx, &UserModel{}, edge.TargetID, "followers_count")
	})
	return ledgerError("insert follow", err)
}

func (r *Repository) ListFollowers(ctx context.Context, userID string) ([]*domain.User, error) {
	rows := make([]UserModel, 0)
	err := r.db.WithContext(ctx).
		Joins("JOIN follows f ON f.follower_id = users.id").
		Where("f.following_id = ?", userID).
		Order("f.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, domain.NewStorageError("list followers", err)
	}
	return usersToDomain(rows), nil
}

func (r *Repository) ListFollowing(ctx context.Context, userID string) ([]*domain.User, error) {
	rows := make([]UserModel, 0)
	err := r.db.WithContext(ctx).
		Joins("JOIN follows f ON f.following_id = users.id").
		Where("f.follower_id = ?", userID).
		Order("f.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, domain.NewStorageError("list following", err)
	}
	return usersToDomain(rows), nil
}

// bump incrémente côté SQL ; UpdateColumn ne touche ni updated_at ni les hooks.
func bump(tx *gorm.DB, model any, id, column string) error {
	res := tx.Model(model).Where("id = ?", id).UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return errCounterTargetMissing
	}
	return nil
}

func ledgerError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEdge
	}
	return domain.NewStorageError(op, err)
}
