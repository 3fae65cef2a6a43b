package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a salted bcrypt hash of the plain password using
// the given cost. The salt is generated per call, so hashing the same
// password twice yields different strings that both verify.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// It is a total function: an empty, truncated or foreign-format stored
// value simply yields false. Callers never need to handle an error just
// because an account row carries a corrupted or legacy hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
