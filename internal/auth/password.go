package auth

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when no account matches, so a failed login
// costs the same bcrypt work whether or not the email exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("catalog-api-dummy-password"), bcrypt.DefaultCost)

func GeneratePasswordHash(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashedPassword), nil
}

// ComparePasswordHash runs in constant time with respect to the password.
func ComparePasswordHash(hashedPassword []byte, password string) error {
	return bcrypt.CompareHashAndPassword(hashedPassword, []byte(password))
}

// BurnPasswordCheck performs a comparison against a fixed hash and discards
// the result.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
