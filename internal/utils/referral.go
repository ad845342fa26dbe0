package utils

import "crypto/rand"

// codeAlphabet is the uppercase alphanumeric alphabet referral codes are
// drawn from. Codes are shared by humans, so lowercase variants are never
// generated.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReferralCodeLength is the length of every generated referral code.
const ReferralCodeLength = 8

// NewReferralCode returns a random 8-character uppercase alphanumeric code.
// The generator does not guarantee global uniqueness; the unique index on
// referral_codes.code does, and the registration flow retries on collision.
func NewReferralCode() (string, error) {
	buf := make([]byte, ReferralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
