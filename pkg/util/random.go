package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateResetCode generates a uniformly random 6-digit numeric code
// in the range 100000-999999.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
