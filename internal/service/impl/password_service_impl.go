package impl

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"

	"md2img-auth/internal/domain"
)

// MinPasswordLength is enforced before any key derivation happens. The
// limit is in characters, not bytes; multibyte passwords count by rune.
const MinPasswordLength = 8

type PBKDF2Params struct {
	Iterations int
	SaltLen    int
	KeyLen     int
}

type PasswordServiceImpl struct {
	cur PBKDF2Params
}

func NewPasswordServicePBKDF2() *PasswordServiceImpl {
	return &PasswordServiceImpl{
		cur: PBKDF2Params{
			Iterations: 120_000,
			SaltLen:    16,
			KeyLen:     32,
		},
	}
}

func (p *PasswordServiceImpl) Hash(password string) (hashHex, saltB64 string, err error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", "", domain.ErrPasswordTooShort
	}
	salt := make([]byte, p.cur.SaltLen)
	if _, err = rand.Read(salt); err != nil {
		return "", "", err
	}
	key := pbkdf2.Key([]byte(password), salt, p.cur.Iterations, p.cur.KeyLen, sha256.New)
	return hex.EncodeToString(key), base64.RawURLEncoding.EncodeToString(salt), nil
}

func (p *PasswordServiceImpl) Verify(password, saltB64, expectedHex string) bool {
	salt, err := base64.RawURLEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(expectedHex)
	if err != nil {
		return false
	}
	key := pbkdf2.Key([]byte(password), salt, p.cur.Iterations, p.cur.KeyLen, sha256.New)
	// Length mismatch only happens on corrupt rows; ConstantTimeCompare
	// would short-circuit on it, which leaks nothing useful here since the
	// key length is fixed.
	if len(key) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare(key, expected) == 1
}
