package driver

import (
	"crypto/sha256"
	"encoding/binary"
)

// Digest is a SHA-256 cache key.
type Digest [32]byte

// CacheKey: H(content || schema || options). Every option that can change
// the diagnostics of a document takes part in the key.
func CacheKey(content []byte, opts Options) Digest {
	h := sha256.New()
	_, _ = h.Write(content)

	var meta [16]byte
	binary.LittleEndian.PutUint16(meta[0:], diskCacheSchemaVersion)
	meta[2] = byte(opts.TextPolicy)
	meta[3] = byte(opts.UnclosedMarkup)
	if opts.ReportAmbiguity {
		meta[4] = 1
	}
	binary.LittleEndian.PutUint64(meta[8:], uint64(max(opts.MaxDiagnostics, 0)))
	_, _ = h.Write(meta[:])

	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// IsZero reports an unset digest.
func (d Digest) IsZero() bool { return d == Digest{} }
