package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jupiterclapton/social-service/internal/core/domain"
	"github.com/jupiterclapton/social-service/internal/core/ports"
)

const minPasswordLength = 6

// IdentityService implémente ports.IdentityService.
// Le secret et la durée de vie des tokens viennent de l'environnement (config).
type IdentityService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenProvider
	secret   []byte
	tokenTTL time.Duration
}

func NewIdentityService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenProvider,
	secret []byte,
	tokenTTL time.Duration,
) *IdentityService {
	return &IdentityService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// --- AUTHENTIFICATION ---

func (s *IdentityService) Register(ctx context.Context, cmd ports.RegisterCmd) (*ports.AuthResponse, error) {
	if len(cmd.Password) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	// Vérification "soft" : la contrainte UNIQUE de la DB reste la vraie garantie
	if existing, err := s.repo.GetByEmail(ctx, normalizeEmail(cmd.Email)); err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := s.hasher.HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(cmd.Name, cmd.Email, cmd.Username, hash, cmd.ImageURL)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("repository save failed: %w", err)
	}

	return s.authResponse(user)
}

func (s *IdentityService) Login(ctx context.Context, cmd ports.LoginCmd) (*ports.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(cmd.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup failed: %w", err)
	}

	ok, err := s.hasher.VerifyPassword(cmd.Password, user.PasswordHash)
	if err != nil {
		// Hash corrompu en base : problème serveur, pas un mauvais mot de passe
		return nil, fmt.Errorf("verify password for user %s: %w", user.ID, err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *IdentityService) Authenticate(ctx context.Context, token string) (*domain.Claims, error) {
	claims, err := s.tokens.ValidateToken(token, s.secret)
	if err != nil {
		// Expiré vs forgé : même traitement pour l'appelant, mais on veut les distinguer dans les logs
		if errors.Is(err, domain.ErrInvalidSignature) {
			slog.WarnContext(ctx, "Rejected token with invalid signature")
		} else {
			slog.DebugContext(ctx, "Rejected token", "error", err)
		}
		return nil, err
	}
	return claims, nil
}

// --- HELPERS ---

func (s *IdentityService) authResponse(user *domain.User) (*ports.AuthResponse, error) {
	token, err := s.tokens.IssueToken(user.ID, user.Username, s.secret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token generation failed: %w", err)
	}
	return &ports.AuthResponse{
		User:      user,
		Token:     token,
		ExpiresIn: s.tokenTTL,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
