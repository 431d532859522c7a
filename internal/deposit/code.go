// Package deposit extracts and generates the deposit codes that route bank
// transfers to wallets.
package deposit

import (
	"crypto/rand"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Prefix starts every deposit code. Matching is case-insensitive.
const Prefix = "SEHUB"

const (
	MinCodeLength     = 6
	MaxCodeLength     = 16
	DefaultCodeLength = 10
)

var (
	// ASCII-only character classes: (?i) would also fold U+017F and U+212A.
	codePattern  = regexp.MustCompile(asciiFold(Prefix) + `[A-Za-z0-9]+`)
	validPattern = regexp.MustCompile(`^` + asciiFold(Prefix) + `[A-Za-z0-9]+$`)
)

func asciiFold(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		b.WriteString("[" + string(r) + strings.ToLower(string(r)) + "]")
	}
	return b.String()
}

// ExtractCode returns the first deposit code found anywhere in text,
// uppercased. Bank descriptions are noisy (account numbers, phone numbers,
// punctuation glued to the code), so this is a substring search.
func ExtractCode(text string) (string, bool) {
	m := codePattern.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.ToUpper(m), true
}

// Normalize returns the canonical form of a code typed by a user or operator.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code is exactly one well-formed deposit code.
func Valid(code string) bool {
	return validPattern.MatchString(code)
}

// Generator issues new deposit codes. The suffix is taken from the random
// component of a ULID, which is Crockford base32 and therefore uppercase
// alphanumeric.
type Generator struct {
	length int
}

func NewGenerator(length int) *Generator {
	if length < MinCodeLength || length > MaxCodeLength {
		length = DefaultCodeLength
	}
	return &Generator{length: length}
}

func (g *Generator) NewCode() string {
	id := ulid.MustNew(ulid.Now(), rand.Reader)
	s := id.String()
	return Prefix + s[len(s)-g.length:]
}
