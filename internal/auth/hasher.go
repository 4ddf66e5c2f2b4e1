// Package auth hashes and verifies user passwords and issues the JWT
// session tokens that gate the cart, wishlist and order endpoints.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql/driver"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	algorithm = "pbkdf2_sha256"
	saltLen   = 16
	keyLen    = 32

	DefaultIterations = 260000
)

// ErrMalformedHash is returned when a stored value does not carry the
// pbkdf2_sha256 marker or cannot be decoded.
var ErrMalformedHash = errors.New("malformed password hash")

// HashedCredential is a one-way password hash in the form
// pbkdf2_sha256$<iterations>$<salt>$<key>. The zero value is empty and never
// verifies. It can only be built by Hasher.Hash or ParseHashedCredential, so
// a raw password cannot be stored by accident.
type HashedCredential struct {
	iterations int
	salt       string
	key        []byte
}

// ParseHashedCredential decodes an encoded credential.
func ParseHashedCredential(encoded string) (HashedCredential, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != algorithm {
		return HashedCredential{}, ErrMalformedHash
	}
	iter, err := strconv.Atoi(parts[1])
	if err != nil || iter < 1 {
		return HashedCredential{}, ErrMalformedHash
	}
	if parts[2] == "" {
		return HashedCredential{}, ErrMalformedHash
	}
	key, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(key) == 0 {
		return HashedCredential{}, ErrMalformedHash
	}
	return HashedCredential{iterations: iter, salt: parts[2], key: key}, nil
}

func (h HashedCredential) IsZero() bool { return len(h.key) == 0 }

func (h HashedCredential) Iterations() int { return h.iterations }

// String returns the encoded form. It contains no secret material beyond
// the hash itself.
func (h HashedCredential) String() string {
	if h.IsZero() {
		return ""
	}
	return algorithm + "$" + strconv.Itoa(h.iterations) + "$" + h.salt + "$" + base64.StdEncoding.EncodeToString(h.key)
}

func (h HashedCredential) Value() (driver.Value, error) {
	if h.IsZero() {
		return nil, errors.New("refusing to store empty credential")
	}
	return h.String(), nil
}

func (h *HashedCredential) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		*h = HashedCredential{}
		return nil
	default:
		return errors.Errorf("scan credential: unsupported type %T", src)
	}
	parsed, err := ParseHashedCredential(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Hasher produces PBKDF2-HMAC-SHA256 credentials.
type Hasher struct {
	Iterations int
}

func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{Iterations: iterations}
}

// Hash derives a credential from raw with a fresh random salt.
func (h *Hasher) Hash(raw string) (HashedCredential, error) {
	if raw == "" {
		return HashedCredential{}, errors.New("empty password")
	}
	buf := make([]byte, saltLen)
	if _, err := rand.Read(buf); err != nil {
		return HashedCredential{}, errors.Wrap(err, "read salt")
	}
	salt := base64.RawURLEncoding.EncodeToString(buf)
	return HashedCredential{
		iterations: h.Iterations,
		salt:       salt,
		key:        derive(raw, salt, h.Iterations),
	}, nil
}

// Verify reports whether raw matches the credential. The comparison is
// constant time with respect to the derived keys.
func (h *Hasher) Verify(raw string, cred HashedCredential) bool {
	if cred.IsZero() {
		return false
	}
	got := derive(raw, cred.salt, cred.iterations)
	return subtle.ConstantTimeCompare(got, cred.key) == 1
}

// VerifyDummy burns the same work as a real verification. Used when the
// account does not exist so response timing does not reveal it.
func (h *Hasher) VerifyDummy(raw string) {
	_ = derive(raw, "dummy-salt-value", h.Iterations)
}

func derive(raw, salt string, iterations int) []byte {
	return pbkdf2.Key([]byte(raw), []byte(salt), iterations, keyLen, sha256.New)
}
