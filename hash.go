package veil

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// HashAlgo represents a supported digest algorithm for the hash kind.
type HashAlgo string

const (
	// HashSHA256 is the default: a hex-encoded 64-character digest.
	HashSHA256 HashAlgo = "sha256"

	// HashSHA512 yields a hex-encoded 128-character digest.
	HashSHA512 HashAlgo = "sha512"

	// HashBlake2b yields a hex-encoded 64-character BLAKE2b-256 digest.
	HashBlake2b HashAlgo = "blake2b"
)

// validHashAlgos contains all valid digest algorithms.
var validHashAlgos = map[HashAlgo]bool{
	HashSHA256:  true,
	HashSHA512:  true,
	HashBlake2b: true,
}

// IsValidHashAlgo returns true if the algorithm is a known digest.
func IsValidHashAlgo(algo HashAlgo) bool {
	return validHashAlgos[algo]
}

// hashTransformer computes a one-way digest of the value's UTF-8 string
// form, rendered as lowercase hexadecimal. Deterministic and unkeyed:
// identical inputs always collide, so hashed values stay linkable across
// datasets sharing the same value.
type hashTransformer struct {
	sum func([]byte) []byte
}

// NewHashTransformer returns a hashing transformer. Unrecognized
// algorithms fall back to SHA-256.
func NewHashTransformer(algo HashAlgo) Transformer {
	var sum func([]byte) []byte
	switch algo {
	case HashSHA512:
		sum = func(b []byte) []byte {
			d := sha512.Sum512(b)
			return d[:]
		}
	case HashBlake2b:
		sum = func(b []byte) []byte {
			d := blake2b.Sum256(b)
			return d[:]
		}
	default:
		sum = func(b []byte) []byte {
			d := sha256.Sum256(b)
			return d[:]
		}
	}
	return &hashTransformer{sum: sum}
}

func (h *hashTransformer) Transform(value any) any {
	s := valueString(value)
	if s == "" {
		return ""
	}
	return hex.EncodeToString(h.sum([]byte(s)))
}
