// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor. Fixed at 10 to balance login
// latency against brute-force resistance.
const passwordCost = 10

// HashPassword hashes a plain-text password using the bcrypt algorithm.
// The plaintext is never logged or returned.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), passwordCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
// bcrypt's comparison is constant-time with respect to the hash contents.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
