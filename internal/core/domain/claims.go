package domain

import "time"

// Claims est le contenu décodé d'un token d'identité.
type Claims struct {
	UserID    string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
