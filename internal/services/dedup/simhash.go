// Package dedup implements near-duplicate detection over ingested text using
// a 64-bit similarity-preserving fingerprint (simhash). Small edits to a text
// produce fingerprints within a few bits of each other; unrelated texts land
// far apart.
package dedup

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/ternarybob/vigia/internal/common"
)

const (
	// fingerprintBits is the fingerprint width.
	fingerprintBits = 64

	// minTextLength is the shortest text worth fingerprinting; anything
	// shorter yields the zero sentinel.
	minTextLength = 10

	// MaxDistance is the distance assigned to invalid or missing
	// fingerprints, which can therefore never count as duplicates.
	MaxDistance = fingerprintBits

	// DefaultThreshold is the default near-duplicate Hamming threshold
	// (~5% bit difference on a 64-bit fingerprint).
	DefaultThreshold = 3

	// zeroFingerprint is the reserved sentinel for too-short text. It is
	// deterministic and comparable but never productively collides.
	zeroFingerprint = "0000000000000000"
)

// Fingerprint computes the 64-bit simhash of a text, returned as 16-char
// lowercase hex. Features are word unigrams plus adjacent-word shingles,
// the shingles weighted double so that word order contributes.
func Fingerprint(text string) string {
	if len(strings.TrimSpace(text)) < minTextLength {
		return zeroFingerprint
	}

	tokens := strings.Fields(common.NormalizeText(text))
	if len(tokens) == 0 {
		return zeroFingerprint
	}

	var v [fingerprintBits]int

	addFeature := func(feature string, weight int) {
		h := xxhash.Sum64String(feature)
		for i := 0; i < fingerprintBits; i++ {
			if h&(1<<uint(i)) != 0 {
				v[i] += weight
			} else {
				v[i] -= weight
			}
		}
	}

	for i, tok := range tokens {
		addFeature(tok, 1)
		if i+1 < len(tokens) {
			addFeature(tok+" "+tokens[i+1], 2)
		}
	}

	var fp uint64
	for i := 0; i < fingerprintBits; i++ {
		if v[i] > 0 {
			fp |= 1 << uint(i)
		}
	}

	return formatFingerprint(fp)
}

func formatFingerprint(fp uint64) string {
	hex := strconv.FormatUint(fp, 16)
	if pad := 16 - len(hex); pad > 0 {
		hex = strings.Repeat("0", pad) + hex
	}
	return hex
}

// HammingDistance returns the number of differing bits between two hex
// fingerprints. Unparsable or missing fingerprints yield MaxDistance so they
// never register as duplicates.
func HammingDistance(a, b string) int {
	va, err := strconv.ParseUint(a, 16, 64)
	if err != nil {
		return MaxDistance
	}
	vb, err := strconv.ParseUint(b, 16, 64)
	if err != nil {
		return MaxDistance
	}
	return bits.OnesCount64(va ^ vb)
}

// IsNearDuplicate reports whether two fingerprints are within threshold bits
// of each other.
func IsNearDuplicate(a, b string, threshold int) bool {
	return HammingDistance(a, b) <= threshold
}

// AnyNearDuplicate reports whether candidate is within threshold bits of any
// fingerprint in the recent window. The window is bounded by the caller;
// duplicates older than it are deliberately not caught.
func AnyNearDuplicate(candidate string, recent []string, threshold int) bool {
	for _, fp := range recent {
		if fp == "" {
			continue
		}
		if HammingDistance(candidate, fp) <= threshold {
			return true
		}
	}
	return false
}
