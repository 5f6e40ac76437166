package auth

import (
	"crypto/rand"
	"math/big"
)

// passwordCharset covers letters, digits and a few symbols accepted
// everywhere.
const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"

// GeneratePassword creates a random password of the given length. Used for
// the bootstrap admin account and for newly created pharmacist accounts.
func GeneratePassword(length int) (string, error) {
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordCharset))))
		if err != nil {
			return "", err
		}
		result[i] = passwordCharset[n.Int64()]
	}
	return string(result), nil
}
