// Package payment builds the payment descriptors handed to the QR renderer.
package payment

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxAddInfoLength is the longest transfer description banks carry through
// unchanged.
const MaxAddInfoLength = 50

var ErrIncompleteBankConfig = errors.New("bank account for deposits is not configured")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

type Config struct {
	BaseURL     string
	Template    string
	BankID      string
	AccountNo   string
	AccountName string
}

type Builder struct {
	cfg Config
}

func NewBuilder(cfg Config) *Builder {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Template == "" {
		cfg.Template = "compact2"
	}
	return &Builder{cfg: cfg}
}

// Build returns the QR quick-link for a deposit to the wallet with
// depositCode. amount is in minor units; zero leaves the amount to the payer.
// The code is always embedded verbatim at the start of addInfo.
func (b *Builder) Build(depositCode string, amount int64, description string) (string, error) {
	if amount < 0 {
		return "", &ValidationError{Field: "amount", Message: "must not be negative"}
	}
	if depositCode == "" {
		return "", &ValidationError{Field: "deposit_code", Message: "required"}
	}
	if b.cfg.BaseURL == "" || b.cfg.BankID == "" || b.cfg.AccountNo == "" {
		return "", ErrIncompleteBankConfig
	}

	q := url.Values{}
	if amount > 0 {
		q.Set("amount", strconv.FormatInt(amount, 10))
	}
	q.Set("addInfo", AddInfo(depositCode, description))
	if b.cfg.AccountName != "" {
		q.Set("accountName", b.cfg.AccountName)
	}

	return fmt.Sprintf("%s/%s-%s-%s.png?%s",
		b.cfg.BaseURL,
		url.PathEscape(b.cfg.BankID),
		url.PathEscape(b.cfg.AccountNo),
		url.PathEscape(b.cfg.Template),
		q.Encode(),
	), nil
}

// codeSeparator ends the deposit code inside addInfo. Some bank apps strip
// spaces from the description, so it must not be a space or alphanumeric.
const codeSeparator = "."

// AddInfo is the transfer description the payer's bank will send back to us.
func AddInfo(depositCode, description string) string {
	desc := Sanitize(description)
	room := MaxAddInfoLength - len(depositCode) - len(codeSeparator)
	if desc == "" || room <= 0 {
		return depositCode
	}
	if len(desc) > room {
		desc = strings.TrimRight(desc[:room], " ")
	}
	return depositCode + codeSeparator + desc
}

// Chains hold state between calls, so each Sanitize builds its own.
func fold() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			switch r {
			case 'đ':
				return 'd'
			case 'Đ':
				return 'D'
			}
			return r
		}),
		norm.NFC,
	)
}

// Sanitize folds s to ASCII letters, digits and single spaces. Bank apps
// strip or mangle anything else.
func Sanitize(s string) string {
	folded, _, err := transform.String(fold(), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	space := false
	for _, r := range folded {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}
	return b.String()
}
