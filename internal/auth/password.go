package auth

import (
	"crypto/rand"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// Characters chosen to avoid ambiguous glyphs in emailed credentials.
const tempPasswordCharset = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// GenerateTemporaryPassword returns a random password of the given length from
// a crypto-secure source. Lengths below the directory minimum of 6 are raised
// to it.
func GenerateTemporaryPassword(length int) (string, error) {
	if length < 6 {
		length = 6
	}
	max := big.NewInt(int64(len(tempPasswordCharset)))
	out := make([]byte, length)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordCharset[idx.Int64()]
	}
	return string(out), nil
}
