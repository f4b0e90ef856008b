package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

var errCounterTargetMissing = errors.New("counter target row missing")

// Colonne de compteur par type d'interaction. Liste fermée : jamais interpolée depuis l'extérieur.
var interactionCounters = map[domain.RelationKind]string{
	domain.KindLike:  "likes_count",
	domain.KindShare: "shares_count",
}

// InsertInteraction écrit l'arête like/share et incrémente le compteur du post dans la même transaction.
func (r *PostgresRepo) InsertInteraction(ctx context.Context, edge *domain.Edge) error {
	column, ok := interactionCounters[edge.Kind]
	if !ok {
		return domain.ErrInvalidRelationship
	}

	return r.inTx(ctx, "insert "+string(edge.Kind), func(tx pgx.Tx) error {
		q := `
			INSERT INTO interactions (id, post_id, user_id, interaction_type, created_at, updated_at)
			VALUES (@id, @post_id, @user_id, @kind, @created_at, @created_at)
		`
		args := pgx.NamedArgs{
			"id":         edge.ID,
			"post_id":    edge.TargetID,
			"user_id":    edge.ActorID,
			"kind":       string(edge.Kind),
			"created_at": edge.CreatedAt,
		}
		if _, err := tx.Exec(ctx, q, args); err != nil {
			return err
		}

		// Incrément côté base : pas de lecture-modification-écriture
		return bump(ctx, tx, `UPDATE posts SET `+column+` = `+column+` + 1 WHERE id = $1`, edge.TargetID)
	})
}

// InsertFollow écrit l'arête follower -> following et incrémente les deux compteurs.
func (r *PostgresRepo) InsertFollow(ctx context.Context, edge *domain.Edge) error {
	return r.inTx(ctx, "insert follow", func(tx pgx.Tx) error {
		q := `
			INSERT INTO follows (id, follower_id, following_id, created_at)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.Exec(ctx, q, edge.ID, edge.ActorID, edge.TargetID, edge.CreatedAt); err != nil {
			return err
		}
		if err := bump(ctx, tx, `UPDATE users SET following_count = following_count + 1 WHERE id = $1`, edge.ActorID); err != nil {
			return err
		}
		return bump(ctx, tx, `UPDATE users SET followers_count = followers_count + 1 WHERE id = $1`, edge.TargetID)
	})
}

func (r *PostgresRepo) ListFollowers(ctx context.Context, userID string) ([]*domain.User, error) {
	q := `
		SELECT u.id, u.name, u.email, u.username, u.password_hash, u.image_url,
		       u.followers_count, u.following_count, u.created_at, u.updated_at
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC
	`
	return r.listUsers(ctx, "list followers", q, userID)
}

func (r *PostgresRepo) ListFollowing(ctx context.Context, userID string) ([]*domain.User, error) {
	q := `
		SELECT u.id, u.name, u.email, u.username, u.password_hash, u.image_url,
		       u.followers_count, u.following_count, u.created_at, u.updated_at
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`
	return r.listUsers(ctx, "list following", q, userID)
}

func (r *PostgresRepo) listUsers(ctx context.Context, op, q string, arg any) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx, q, arg)
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	return users, nil
}

// inTx : BeginTxFunc garantit le rollback sur erreur comme sur panic, et rend la connexion au pool.
func (r *PostgresRepo) inTx(ctx context.Context, op string, fn func(pgx.Tx) error) error {
	err := pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEdge
	}
	return domain.NewStorageError(op, err)
}

func bump(ctx context.Context, tx pgx.Tx, q, id string) error {
	tag, err := tx.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return errCounterTargetMissing
	}
	return nil
}
