package traitgen

import (
	"encoding/binary"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Fingerprint is a sha2-256 multihash of an attribute set's values.
type Fingerprint multihash.Multihash

// FingerprintOf digests the values of attrs in layer order. Each value is
// prefixed with its uvarint length so that ("a","bc") and ("ab","c") differ.
func FingerprintOf(attrs AttributeSet) Fingerprint {
	var buf []byte
	for _, a := range attrs {
		buf = binary.AppendUvarint(buf, uint64(len(a.Value)))
		buf = append(buf, a.Value...)
	}
	sum, err := multihash.Sum(buf, multihash.SHA2_256, -1)
	if err != nil {
		// Only reachable with an unknown hash code.
		panic(err)
	}
	return Fingerprint(sum)
}

// String renders the fingerprint as a CIDv1 (raw codec).
func (f Fingerprint) String() string {
	if len(f) == 0 {
		return ""
	}
	return cid.NewCidV1(cid.Raw, multihash.Multihash(f)).String()
}

// Registry tracks the fingerprints accepted during a single run.
// Accept is atomic, so it may be shared between workers.
type Registry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]struct{})}
}

// Accept inserts the fingerprint of attrs and reports whether it was new.
func (r *Registry) Accept(attrs AttributeSet) bool {
	_, ok := r.AcceptFingerprint(FingerprintOf(attrs))
	return ok
}

// AcceptFingerprint is Accept for a precomputed fingerprint. It returns
// the fingerprint back for convenience.
func (r *Registry) AcceptFingerprint(f Fingerprint) (Fingerprint, bool) {
	key := string(f)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.seen[key]; dup {
		return f, false
	}
	r.seen[key] = struct{}{}
	return f, true
}

// Contains reports whether attrs has already been accepted.
func (r *Registry) Contains(attrs AttributeSet) bool {
	key := string(FingerprintOf(attrs))
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[key]
	return ok
}

// Len returns the number of accepted fingerprints.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
