package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const PasscodeDigits = 6

var passcodeSpace = big.NewInt(1_000_000)

// PasscodeGenerator returns a fresh fixed-length numeric code.
type PasscodeGenerator func() (string, error)

// GeneratePasscode draws a uniform 6-digit code from crypto/rand.
func GeneratePasscode() (string, error) {
	n, err := rand.Int(rand.Reader, passcodeSpace)
	if err != nil {
		return "", fmt.Errorf("generate passcode: %w", err)
	}
	return fmt.Sprintf("%0*d", PasscodeDigits, n.Int64()), nil
}
