package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- ENTITÉ ---

type User struct {
	ID             string
	Name           string
	Email          string
	Username       string
	PasswordHash   string
	ImageURL       *string // nil = pas d'avatar
	FollowersCount int32   // Compteur dénormalisé, maintenu par le Ledger uniquement
	FollowingCount int32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// --- FACTORY ---

// NewUser crée une nouvelle instance valide.
// Les compteurs démarrent à zéro : seul le Ledger a le droit de les faire bouger.
func NewUser(name, email, username, passwordHash string, imageURL *string) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(username)) < 3 {
		return nil, ErrInvalidUsername
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		ImageURL:     imageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// --- VALIDATEURS INTERNES ---

func validateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	addr, err := mail.ParseAddress(trimmed)
	// Refuse la forme "Nom <adresse>"
	if err != nil || addr.Address != trimmed {
		return ErrInvalidEmail
	}
	return nil
}
