package lesson

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// derivedIDPrefix is the reserved UUID block legacy numeric lesson indexes
// map into. The index is embedded in the trailing group so it stays
// recoverable after the identifier migration.
const derivedIDPrefix = "00000000-0000-4000-a000-"

// IsCanonicalID reports whether raw already has the canonical UUID shape.
func IsCanonicalID(raw string) bool {
	if len(raw) != 36 {
		return false
	}
	_, err := uuid.Parse(raw)
	return err == nil
}

// Normalize converts a raw lesson identifier to its canonical form.
// Canonical UUID-shaped identifiers pass through (lowercased); anything
// parseable as a legacy 1-based numeric index is mapped into the derived
// UUID block. Malformed input is returned unchanged so callers can reject it
// with IsCanonicalID.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if IsCanonicalID(raw) {
		return strings.ToLower(raw)
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return DeriveID(n)
	}
	return raw
}

// DeriveID returns the canonical identifier derived from a legacy numeric
// lesson index.
func DeriveID(index int) string {
	return derivedIDPrefix + leftPadHex(index)
}

// TryExtractIndex recovers the numeric index embedded in a derived
// identifier. It returns (0, false) for identifiers that were never derived
// from a numeric index (true UUIDs assigned at catalog-authoring time).
func TryExtractIndex(id string) (int, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if !strings.HasPrefix(id, derivedIDPrefix) || len(id) != 36 {
		return 0, false
	}
	n, err := strconv.ParseInt(id[len(derivedIDPrefix):], 16, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return int(n), true
}

func leftPadHex(n int) string {
	s := strconv.FormatInt(int64(n), 16)
	if pad := 12 - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return s
}
