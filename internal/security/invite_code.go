package security

import (
	"crypto/rand"
	"math/big"
)

const (
	inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	InviteCodeLength   = 6
)

// GenerateInviteCode returns a random code of uppercase letters and digits
func GenerateInviteCode() (string, error) {
	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	code := make([]byte, InviteCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
