package utils

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when a login names an unknown user so the
// response time does not reveal whether the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("svs-ops-dummy-password"), bcrypt.DefaultCost)

// HashPassword hashes a plain-text password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// EqualizeTiming burns one bcrypt comparison.
func EqualizeTiming(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
