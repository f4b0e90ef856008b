package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/jupiterclapton/social-service/internal/core/domain"
)

// Paramètres figés (OWASP) : l'appelant ne peut PAS baisser le coût.
const (
	argonMemory      uint32 = 64 * 1024 // 64 MB
	argonIterations  uint32 = 3
	argonParallelism uint8  = 2
	argonSaltLength         = 16
	argonKeyLength   uint32 = 32
)

// Plafonds appliqués aux paramètres lus dans un hash stocké : une ligne corrompue ne doit pas
// déclencher une allocation démesurée dans argon2.IDKey.
const (
	maxArgonMemory      uint32 = 256 * 1024 // 256 MB
	maxArgonIterations  uint32 = 10
	maxArgonParallelism uint8  = 16
	maxArgonKeyLength          = 128
)

// params décrit les paramètres lus dans un hash encodé (ils peuvent différer des constantes
// pour des hash plus anciens).
type params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	keyLength   uint32
}

type Argon2Hasher struct {
	entropy func([]byte) (int, error) // crypto/rand par défaut, remplaçable en test
}

func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{entropy: rand.Read}
}

// HashPassword génère le hash Argon2id et retourne une chaîne au format PHC.
// Seul un échec de la source d'entropie produit une erreur, jamais le contenu du mot de passe.
func (a *Argon2Hasher) HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := a.entropy(salt); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHashingFailure, err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)

	// Format: $argon2id$v=19$m=65536,t=3,p=2$salt$hash
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonIterations, argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword recalcule le hash avec les paramètres d'origine et compare à temps constant.
// Accepte aussi les hash bcrypt hérités de l'ancien backend ($2a$, $2b$, $2y$).
func (a *Argon2Hasher) VerifyPassword(password, encodedHash string) (bool, error) {
	if isBcrypt(encodedHash) {
		return verifyBcrypt(password, encodedHash)
	}

	p, salt, hash, err := decodeHash(encodedHash)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrMalformedHash, err)
	}

	otherHash := argon2.IDKey([]byte(password), salt, p.iterations, p.memory, p.parallelism, p.keyLength)

	return subtle.ConstantTimeCompare(hash, otherHash) == 1, nil
}

// --- Helpers de décodage ---

func decodeHash(encodedHash string) (p *params, salt, hash []byte, err error) {
	vals := strings.Split(encodedHash, "$")
	if len(vals) != 6 || vals[1] != "argon2id" {
		return nil, nil, nil, errors.New("invalid hash format")
	}

	var version int
	if _, err = fmt.Sscanf(vals[2], "v=%d", &version); err != nil {
		return nil, nil, nil, err
	}
	if version != argon2.Version {
		return nil, nil, nil, errors.New("incompatible argon2 version")
	}

	p = &params{}
	if _, err = fmt.Sscanf(vals[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return nil, nil, nil, err
	}
	if p.memory == 0 || p.iterations == 0 || p.parallelism == 0 {
		return nil, nil, nil, errors.New("invalid argon2 parameters")
	}
	if p.memory > maxArgonMemory || p.iterations > maxArgonIterations || p.parallelism > maxArgonParallelism {
		return nil, nil, nil, errors.New("argon2 parameters out of range")
	}

	salt, err = base64.RawStdEncoding.DecodeString(vals[4])
	if err != nil {
		return nil, nil, nil, err
	}

	hash, err = base64.RawStdEncoding.DecodeString(vals[5])
	if err != nil {
		return nil, nil, nil, err
	}
	if len(hash) == 0 || len(hash) > maxArgonKeyLength {
		return nil, nil, nil, errors.New("invalid hash length")
	}
	p.keyLength = uint32(len(hash))

	return p, salt, hash, nil
}

func isBcrypt(encodedHash string) bool {
	return strings.HasPrefix(encodedHash, "$2a$") ||
		strings.HasPrefix(encodedHash, "$2b$") ||
		strings.HasPrefix(encodedHash, "$2y$")
}

func verifyBcrypt(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", domain.ErrMalformedHash, err)
	}
}
