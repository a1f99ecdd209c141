package security

import (
	"crypto/rand"
	"math/big"
)

const (
	alnumChars   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	numericChars = "0123456789"

	tempAlnumLen   = 12
	tempNumericLen = 4
	tempSuffix     = "!"
)

// TempPassword generates a randomised temporary secondary credential:
// 12 alphanumeric and 4 numeric characters shuffled together, with a
// fixed non-alphanumeric suffix. The shape is chosen to satisfy the
// usual policies, but callers must still validate it against the
// actual policy for the credential type.
func TempPassword() (string, error) {
	chars := make([]byte, 0, tempAlnumLen+tempNumericLen)

	for i := 0; i < tempAlnumLen; i++ {
		c, err := randomChar(alnumChars)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for i := 0; i < tempNumericLen; i++ {
		c, err := randomChar(numericChars)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	if err := shuffle(chars); err != nil {
		return "", err
	}

	return string(chars) + tempSuffix, nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}

// shuffle is a Fisher-Yates shuffle driven by crypto/rand.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
