package sqlite

import "github.com/jupiterclapton/social-service/internal/core/domain"

func toUserModel(u *domain.User) *UserModel {
	return &UserModel{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Username:       u.Username,
		PasswordHash:   u.PasswordHash,
		ImageURL:       u.ImageURL,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (m UserModel) toDomain() *domain.User {
	return &domain.User{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		Username:       m.Username,
		PasswordHash:   m.PasswordHash,
		ImageURL:       m.ImageURL,
		FollowersCount: m.FollowersCount,
		FollowingCount: m.FollowingCount,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (m PostModel) toDomain() *domain.Post {
	return &domain.Post{
		ID:          m.ID,
		UserID:      m.UserID,
		Content:     m.Content,
		Images:      m.Images,
		LikesCount:  m.LikesCount,
		SharesCount: m.SharesCount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (m CommentModel) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		UserID:    m.UserID,
		Content:   m.Content,
		Images:    m.Images,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func usersToDomain(rows []UserModel) []*domain.User {
	out := make([]*domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out
}

func postsToDomain(rows []PostModel) []*domain.Post {
	out := make([]*domain.Post, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out
}
