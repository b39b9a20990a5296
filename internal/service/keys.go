package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // address hashing, not a security primitive
)

// APIKeyFunc derives a user's API key from their email. It must be deterministic.
type APIKeyFunc func(email string) string

// AddressFunc derives a wallet address from the owner id and how many wallets they already hold.
type AddressFunc func(userID int64, walletCount int) string

// Argon2id parameters for API key derivation.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64MB
	argon2Threads = 4
	argon2KeyLen  = 32
)

// base58 address version byte, as in P2PKH.
const addressVersion byte = 0x00

// SHA256APIKey returns hex(sha256(email + "~" + secret)).
func SHA256APIKey(secret string) APIKeyFunc {
	return func(email string) string {
		sum := sha256.Sum256([]byte(email + "~" + secret))
		return hex.EncodeToString(sum[:])
	}
}

// Argon2APIKey derives the key with Argon2id, using secret as the salt.
func Argon2APIKey(secret string) APIKeyFunc {
	return func(email string) string {
		key := argon2.IDKey([]byte(email), []byte(secret), argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
		return hex.EncodeToString(key)
	}
}

// SHA256Address returns hex(sha256("<userID>-<walletCount>-<secret>")).
func SHA256Address(secret string) AddressFunc {
	return func(userID int64, walletCount int) string {
		sum := sha256.Sum256(addressSeed(userID, walletCount, secret))
		return hex.EncodeToString(sum[:])
	}
}

// Base58Address returns a base58check encoded ripemd160(sha256(seed)).
func Base58Address(secret string) AddressFunc {
	return func(userID int64, walletCount int) string {
		sum := sha256.Sum256(addressSeed(userID, walletCount, secret))
		h := ripemd160.New()
		h.Write(sum[:])

		payload := append([]byte{addressVersion}, h.Sum(nil)...)
		first := sha256.Sum256(payload)
		second := sha256.Sum256(first[:])
		return base58.Encode(append(payload, second[:4]...))
	}
}

func addressSeed(userID int64, walletCount int, secret string) []byte {
	return []byte(fmt.Sprintf("%d-%d-%s", userID, walletCount, secret))
}
