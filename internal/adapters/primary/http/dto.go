package http

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jupiterclapton/social-service/internal/core/domain"
	"github.com/jupiterclapton/social-service/internal/core/ports"
)

// --- REQUÊTES ---

type registerRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,email"`
	Username string  `json:"username" validate:"required,min=3,max=255"`
	Password string  `json:"password" validate:"required,min=6"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createPostRequest struct {
	UserID  string   `json:"user_id" validate:"omitempty,uuid"`
	Content string   `json:"content" validate:"required"`
	Images  []string `json:"images" validate:"omitempty,dive,url"`
}

type createCommentRequest struct {
	PostID  string   `json:"post_id" validate:"required,uuid"`
	UserID  string   `json:"user_id" validate:"omitempty,uuid"`
	Content string   `json:"content" validate:"required"`
	Images  []string `json:"images" validate:"omitempty,dive,url"`
}

// --- RÉPONSES ---

type userResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	ImageURL       *string   `json:"image_url,omitempty"`
	FollowersCount int32     `json:"followers_count"`
	FollowingCount int32     `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type authResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      userResponse `json:"user"`
}

type postResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Content     string    `json:"content"`
	Images      []string  `json:"images"`
	LikesCount  int32     `json:"likes_count"`
	SharesCount int32     `json:"shares_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type edgeResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	ActorID   string    `json:"actor_id"`
	TargetID  string    `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

// --- MAPPERS (Domain -> JSON) ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Username:       u.Username,
		ImageURL:       u.ImageURL,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toAuthResponse(res *ports.AuthResponse) authResponse {
	return authResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresIn: int64(res.ExpiresIn.Seconds()),
		User:      toUserResponse(res.User),
	}
}

func toPostResponse(p *domain.Post) postResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return postResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Content:     p.Content,
		Images:      images,
		LikesCount:  p.LikesCount,
		SharesCount: p.SharesCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPostResponses(posts []*domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

func toCommentResponse(c *domain.Comment) commentResponse {
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return commentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Content:   c.Content,
		Images:    images,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toEdgeResponse(e *domain.Edge) edgeResponse {
	return edgeResponse{
		ID:        e.ID,
		Kind:      string(e.Kind),
		ActorID:   e.ActorID,
		TargetID:  e.TargetID,
		CreatedAt: e.CreatedAt,
	}
}

// newValidator remonte les noms JSON dans les erreurs de validation.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
