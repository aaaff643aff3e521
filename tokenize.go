package veil

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// TokenPrefix marks tokenized values.
const TokenPrefix = "TOKEN_"

const (
	defaultTokenLength  = 16
	defaultMemoCapacity = 10000
)

// tokenizeTransformer produces keyed, deterministic pseudonyms: an
// HMAC-SHA256 over the value's UTF-8 string form, hex-encoded, truncated
// to the configured length and prefixed with TokenPrefix. The same value
// under the same key always yields the same token; different keys yield
// unlinkable tokens.
//
// Tokens are memoized per distinct input in a bounded LRU owned by the
// transformer instance, so repeated values in large columns are cheap
// without unbounded memory growth.
type tokenizeTransformer struct {
	key    []byte
	length int
	memo   *lru.Cache[string, string]
}

// NewTokenizeTransformer returns a tokenizing transformer. An empty
// secretKey generates a random key, making tokens non-deterministic
// across process restarts; fix the key externally (VEIL_SECRET_KEY or the
// secret_key parameter) for cross-run consistency.
func NewTokenizeTransformer(secretKey string, tokenLength, memoCapacity int) Transformer {
	if secretKey == "" {
		secretKey = randomKey()
	}
	if tokenLength <= 0 {
		tokenLength = defaultTokenLength
	}
	if memoCapacity <= 0 {
		memoCapacity = defaultMemoCapacity
	}

	// lru.New only fails for non-positive sizes, which are normalized above.
	memo, _ := lru.New[string, string](memoCapacity)

	return &tokenizeTransformer{
		key:    []byte(secretKey),
		length: tokenLength,
		memo:   memo,
	}
}

func (t *tokenizeTransformer) Transform(value any) any {
	s := valueString(value)
	if s == "" {
		return ""
	}

	if token, ok := t.memo.Get(s); ok {
		return token
	}

	mac := hmac.New(sha256.New, t.key)
	mac.Write([]byte(s))
	digest := hex.EncodeToString(mac.Sum(nil))
	if t.length < len(digest) {
		digest = digest[:t.length]
	}

	token := TokenPrefix + digest
	t.memo.Add(s, token)
	return token
}

// randomKey generates a 32-byte random key, hex-encoded.
func randomKey() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms.
		panic("veil: reading random key: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
