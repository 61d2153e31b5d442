package service

// PasswordService is the credential codec: a slow salted KDF on the way in,
// a constant-time comparison on the way back.
type PasswordService interface {
	// Hash derives a key from the password under a fresh random salt.
	// The hash comes back hex-encoded, the salt URL-safe-base64-encoded.
	Hash(password string) (hashHex, saltB64 string, err error)
	// Verify re-derives with the stored salt and compares in constant time.
	Verify(password, saltB64, expectedHex string) bool
}
