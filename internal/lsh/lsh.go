// Package lsh implements the Fuzzy Matcher's locality-sensitive hash
// (spec.md §4.6, §3 "Component LSH Digest"): a 70-byte (560-bit) SimHash
// over a canonicalized feature set, and the integer distance metric used
// to rank stored digests against an analysis's digest.
package lsh

import (
	"math/bits"

	"golang.org/x/crypto/blake2b"
)

// DigestSize is the fixed digest length spec.md §3 names: "Optional
// 70-byte locality-sensitive hash per component version".
const DigestSize = 70

// bitCount is the number of weighted-vote bits the digest packs.
const bitCount = DigestSize * 8

// MinCorpusBytes is the minimum canonicalized feature payload spec.md §4.6
// step 1 requires before a digest can be computed at all ("Requires ≥ 256
// bytes of canonicalized feature payload; otherwise the fuzzy matcher
// emits nothing").
const MinCorpusBytes = 256

// seed is the Determinism Layer's fixed hash seed (spec.md §2 "Determinism
// Layer ... fixed hash seed for all content-addressed operations"): every
// digest computation, at ingest or at analysis time, keys BLAKE2b with
// this same value, so the same feature always hashes to the same
// per-feature hash words regardless of process or machine.
var seed = [16]byte{
	0x42, 0x69, 0x6e, 0x61, 0x72, 0x79, 0x53, 0x6e,
	0x69, 0x66, 0x66, 0x65, 0x72, 0x4c, 0x53, 0x48,
}

// Digest computes the 70-byte SimHash of a canonicalized feature set.
// Returns false if the payload is too small to digest meaningfully
// (spec.md §4.6 step 1).
//
// Each feature is expanded by featureHash into enough 64-bit words (keyed
// BLAKE2b, one hash per word) to cover bitCount bits; every set bit in a feature's hash casts a +1 vote for
// that bit position, every clear bit a -1 vote. The final digest bit is 1
// wherever the vote sum is positive. Similar feature sets produce digests
// at small Hamming distance, which is exactly the property the Fuzzy
// Matcher's distance→confidence mapping depends on.
func Digest(features []string) ([]byte, bool) {
	var payload int
	for _, f := range features {
		payload += len(f)
	}
	if payload < MinCorpusBytes {
		return nil, false
	}

	votes := make([]int, bitCount)
	for _, f := range features {
		h := featureHash(f)
		for bit := 0; bit < bitCount; bit++ {
			word := bit / 64
			if word >= len(h) {
				break
			}
			if h[word]&(uint64(1)<<uint(bit%64)) != 0 {
				votes[bit]++
			} else {
				votes[bit]--
			}
		}
	}

	out := make([]byte, DigestSize)
	for bit := 0; bit < bitCount; bit++ {
		if votes[bit] > 0 {
			out[bit/8] |= 1 << uint(bit%8)
		}
	}
	return out, true
}

// featureHash expands one feature into enough 64-bit hash words to cover
// bitCount bits: for each word it hashes the word's index byte followed by
// the feature text with BLAKE2b-512 keyed by seed, and keeps the first 8
// bytes of the sum, big-endian.
func featureHash(f string) []uint64 {
	words := (bitCount + 63) / 64
	out := make([]uint64, words)
	for i := 0; i < words; i++ {
		mac, err := blake2b.New512(seed[:])
		if err != nil {
			// blake2b.New512 only errors on an oversized key, and seed is
			// fixed at 16 bytes, well under the 64-byte maximum.
			panic("lsh: blake2b keyed hash: " + err.Error())
		}
		mac.Write([]byte{byte(i)})
		mac.Write([]byte(f))
		sum := mac.Sum(nil)
		var v uint64
		for _, b := range sum[:8] {
			v = v<<8 | uint64(b)
		}
		out[i] = v
	}
	return out
}

// Distance computes the Hamming distance between two digests (spec.md
// §4.6 step 2: "integer, lower = more similar"). Digests of differing
// length are treated as maximally distant.
func Distance(a, b []byte) int {
	if len(a) != len(b) {
		return bitCount
	}
	d := 0
	for i := range a {
		d += bits.OnesCount8(a[i] ^ b[i])
	}
	return d
}

// confidenceBreakpoints is the piecewise table of spec.md §4.6 step 3:
// "0→1.00, ≤30→0.92, ≤70→0.78, ≤100→0.60, linearly interpolated between
// breakpoints." Tunable by design (spec.md §9), not an invariant.
var confidenceBreakpoints = []struct {
	distance   int
	confidence float64
}{
	{0, 1.00},
	{30, 0.92},
	{70, 0.78},
	{100, 0.60},
}

// Confidence maps a Hamming distance to a fuzzy-match confidence via
// linear interpolation between the breakpoints above. Distances beyond
// the last breakpoint return the last breakpoint's confidence; callers
// are expected to have already discarded distances past the configured
// threshold (default 70, spec.md §4.6 step 2).
func Confidence(distance int) float64 {
	if distance <= confidenceBreakpoints[0].distance {
		return confidenceBreakpoints[0].confidence
	}
	for i := 1; i < len(confidenceBreakpoints); i++ {
		prev := confidenceBreakpoints[i-1]
		cur := confidenceBreakpoints[i]
		if distance <= cur.distance {
			span := float64(cur.distance - prev.distance)
			frac := float64(distance-prev.distance) / span
			return prev.confidence + frac*(cur.confidence-prev.confidence)
		}
	}
	return confidenceBreakpoints[len(confidenceBreakpoints)-1].confidence
}
