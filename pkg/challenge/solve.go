package challenge

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Alphabet is the answer symbol set in enumeration order.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// MaxAttempts is the size of the answer space (every ordered pair of symbols).
const MaxAttempts = len(Alphabet) * len(Alphabet)

var (
	// ErrUnsolvable is returned when no two-symbol suffix matches the hash.
	ErrUnsolvable = errors.New("no answer in search space")

	// ErrMalformed is returned when the challenge script lacks a field.
	ErrMalformed = errors.New("malformed challenge")
)

// Challenge is a proof-of-work puzzle extracted from the challenge script.
type Challenge struct {
	Base    string
	Hash    string // hex-encoded SHA-256 target
	HMAC    string
	Expires string
	Token   string
}

// Solve finds the suffix s over Alphabet such that hex(sha256(base+s))
// equals target (compared case-insensitively). Pairs are enumerated as
// nested loops over the first then the second symbol, so the first match
// in that order is returned together with the number of hashes computed.
func Solve(base, target string) (answer string, attempts int, err error) {
	target = strings.ToLower(strings.TrimSpace(target))
	buf := make([]byte, len(base)+2)
	copy(buf, base)
	for i := 0; i < len(Alphabet); i++ {
		buf[len(base)] = Alphabet[i]
		for j := 0; j < len(Alphabet); j++ {
			buf[len(base)+1] = Alphabet[j]
			attempts++
			sum := sha256.Sum256(buf)
			if hex.EncodeToString(sum[:]) == target {
				return string(buf[len(base):]), attempts, nil
			}
		}
	}
	return "", attempts, fmt.Errorf("%w: base %q", ErrUnsolvable, base)
}

var scriptPathRE = regexp.MustCompile(`src=["']/([^"'/?#]+(?:/[^"'/?#]+)*)/script\.js["'?#]`)

// Detect reports whether an index page embeds the challenge script, and
// returns the script's directory path (without leading or trailing slash).
func Detect(page string) (path string, ok bool) {
	m := scriptPathRE.FindStringSubmatch(page)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// fieldRE matches `key: "value"`, `"key":"value"` or `key='value'`.
func fieldRE(key string) *regexp.Regexp {
	return regexp.MustCompile(`["']?\b` + key + `\b["']?\s*[:=]\s*["']([^"']*)["']`)
}

var fieldPatterns = []struct {
	name string
	re   *regexp.Regexp
	set  func(*Challenge, string)
}{
	{"base", fieldRE("base"), func(c *Challenge, v string) { c.Base = v }},
	{"hash", fieldRE("hash"), func(c *Challenge, v string) { c.Hash = v }},
	{"hmac", fieldRE("hmac"), func(c *Challenge, v string) { c.HMAC = v }},
	{"expires", fieldRE("expires"), func(c *Challenge, v string) { c.Expires = v }},
	{"token", fieldRE("token"), func(c *Challenge, v string) { c.Token = v }},
}

// Parse extracts a Challenge from the challenge script. Every field must be
// present; hash must be a 64-character hex digest.
func Parse(script string) (*Challenge, error) {
	var c Challenge
	for _, f := range fieldPatterns {
		m := f.re.FindStringSubmatch(script)
		if m == nil || m[1] == "" {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformed, f.name)
		}
		f.set(&c, m[1])
	}
	if _, err := hex.DecodeString(c.Hash); err != nil || len(c.Hash) != 2*sha256.Size {
		return nil, fmt.Errorf("%w: hash %q is not a sha256 hex digest", ErrMalformed, c.Hash)
	}
	return &c, nil
}
