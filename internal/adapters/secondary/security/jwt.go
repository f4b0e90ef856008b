package security

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

// userClaims étend les claims standards JWT
type userClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTProvider signe en HS256 avec une clé symétrique fournie à chaque appel.
// Aucun état persistant : fonction pure de (clé, horloge).
type JWTProvider struct {
	now func() time.Time
}

func NewJWTProvider() *JWTProvider {
	return &JWTProvider{now: time.Now}
}

// WithClock remplace l'horloge murale (tests, rejouage).
func (j *JWTProvider) WithClock(now func() time.Time) *JWTProvider {
	j.now = now
	return j
}

// IssueToken construit {sub, username, iat=now, exp=now+ttl} et le signe.
func (j *JWTProvider) IssueToken(userID, username string, secretKey []byte, ttl time.Duration) (string, error) {
	if len(secretKey) == 0 {
		return "", errors.New("empty signing key")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("invalid token ttl: %s", ttl)
	}

	now := j.now()
	claims := userClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ValidateToken vérifie la signature EN PREMIER (temps constant), puis l'expiration.
// Un token forgé non expiré ne passe jamais, et un token expiré mais bien signé
// reste distinguable d'une falsification.
func (j *JWTProvider) ValidateToken(tokenString string, secretKey []byte) (*domain.Claims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nil, domain.ErrMalformedToken
	}

	// 1. Signature : on compare l'encodage canonique, donc tout octet altéré du token échoue
	expected, err := jwt.SigningMethodHS256.Sign(parts[0]+"."+parts[1], secretKey)
	if err != nil || len(secretKey) == 0 {
		return nil, domain.ErrInvalidSignature
	}
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(base64.RawURLEncoding.EncodeToString(expected))) != 1 {
		return nil, domain.ErrInvalidSignature
	}

	// 2. Décodage des claims + expiration
	claims := &userClaims{}
	_, err = jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return secretKey, nil
		},
		// Empêche les attaques où l'attaquant force l'algo à "none" ou RS256
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, domain.ErrInvalidSignature
	default:
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}

	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, domain.ErrMalformedToken
	}

	out := &domain.Claims{
		UserID:    claims.Subject,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
