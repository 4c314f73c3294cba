package leads

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningDiacritics is the Combining Diacritical Marks block, U+0300–U+036F.
var combiningDiacritics = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

// nameConnectors stay lower case inside a capitalized name.
var nameConnectors = map[string]struct{}{
	"da": {}, "de": {}, "do": {}, "das": {}, "dos": {}, "e": {},
}

// RemoveAccents decomposes text (NFD) and drops combining diacritical marks,
// so "João" becomes "Joao".
func RemoveAccents(text string) string {
	// transform.Chain keeps state, so each call gets its own chain.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(combiningDiacritics)))
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// CapitalizeName strips accents, lower-cases the name and capitalizes every
// word except the connectors da, de, do, das, dos and e.
func CapitalizeName(name string) string {
	words := strings.Fields(strings.ToLower(RemoveAccents(name)))
	for i, word := range words {
		if _, ok := nameConnectors[word]; ok {
			continue
		}
		first, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(first)) + word[size:]
	}
	return strings.Join(words, " ")
}

// Name holds the capitalized full name and its first/last parts.
type Name struct {
	First   string
	Surname string
	Full    string
}

// SplitName capitalizes fullName and splits it into the first word and the
// rest. A single-word name has an empty surname.
func SplitName(fullName string) Name {
	full := CapitalizeName(strings.TrimSpace(fullName))
	first, rest, _ := strings.Cut(full, " ")
	return Name{First: first, Surname: rest, Full: full}
}

// PhoneNumbers are the three phone representations sent downstream.
type PhoneNumbers struct {
	// Local is the phone digits without the country prefix.
	Local string
	// Full is the country digits followed by Local.
	Full string
	// International is Full with a leading "+".
	International string
}

// ReconcilePhone combines phone and countryCode without repeating the country
// prefix when the visitor already typed it. Reconciling Full again is a no-op.
func ReconcilePhone(phone, countryCode string) PhoneNumbers {
	countryDigits := onlyDigits(strings.TrimPrefix(strings.TrimSpace(countryCode), "+"))
	local := onlyDigits(phone)
	if countryDigits != "" && strings.HasPrefix(local, countryDigits) {
		local = local[len(countryDigits):]
	}
	full := countryDigits + local
	return PhoneNumbers{
		Local:         local,
		Full:          full,
		International: "+" + full,
	}
}

// GenerateValidationCode returns a uniformly random six-digit code from a
// cryptographically secure source.
func GenerateValidationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("leads: generate validation code: %w", err)
	}
	return strconv.FormatInt(100000+n.Int64(), 10), nil
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateLeadID returns lead_<base36 unix millis>_<6 random base36 chars>.
func GenerateLeadID(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = base36Alphabet[mrand.IntN(len(base36Alphabet))]
	}
	return "lead_" + strconv.FormatInt(now.UnixMilli(), 36) + "_" + string(suffix)
}
