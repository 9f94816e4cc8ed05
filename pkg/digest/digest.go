// Package digest hashes canonical encodings. Because every value has one
// encoding, a digest of its bytes identifies the value itself, which is what
// signing and content addressing need.
//
// Digests are domain separated: each type name gets a seed derived from the
// hasher's domain, and the value's bytes are hashed after that seed. Two
// types that happen to encode to the same bytes therefore never collide.
package digest

import (
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/cespare/xxhash/v2"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"

	"github.com/zefchain/bcs"
)

// Hash is a 32-byte digest.
type Hash [32]byte

func (h Hash) String() string {
	return Format(h)
}

// Algorithm selects the hash function.
type Algorithm uint8

const (
	SHA3_256 Algorithm = iota + 1
	BLAKE3
)

func (a Algorithm) String() string {
	switch a {
	case SHA3_256:
		return "sha3-256"
	case BLAKE3:
		return "blake3"
	default:
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
}

func (a Algorithm) new() hash.Hash {
	if a == BLAKE3 {
		return blake3.New()
	}
	return sha3.New256()
}

// Hasher computes domain-separated digests. It is safe for concurrent use;
// seeds are computed once per type name and shared.
type Hasher struct {
	alg    Algorithm
	domain string
	codec  *bcs.Codec
	seeds  *xsync.MapOf[string, Hash]
}

// NewHasher returns a Hasher for domain. A nil codec encodes with the
// default limits.
func NewHasher(alg Algorithm, domain string, codec *bcs.Codec) (*Hasher, error) {
	if alg != SHA3_256 && alg != BLAKE3 {
		return nil, fmt.Errorf("digest: unknown algorithm %s", alg)
	}
	if codec == nil {
		var err error
		if codec, err = bcs.New(bcs.DefaultConfig()); err != nil {
			return nil, err
		}
	}
	return &Hasher{
		alg:    alg,
		domain: domain,
		codec:  codec,
		seeds:  xsync.NewMapOf[string, Hash](),
	}, nil
}

// Algorithm returns the hash function in use.
func (h *Hasher) Algorithm() Algorithm {
	return h.alg
}

// Seed returns H(domain || "::" || typeName).
func (h *Hasher) Seed(typeName string) Hash {
	seed, _ := h.seeds.LoadOrCompute(typeName, func() Hash {
		hh := h.alg.new()
		hh.Write([]byte(h.domain))
		hh.Write([]byte("::"))
		hh.Write([]byte(typeName))
		return sum(hh)
	})
	return seed
}

// Sum returns H(Seed(typeName) || bcs(v)). The encoding is streamed into
// the hash function and never buffered.
func (h *Hasher) Sum(typeName string, v bcs.Serializable) (Hash, error) {
	hh := h.alg.new()
	seed := h.Seed(typeName)
	hh.Write(seed[:])
	if err := h.codec.Encode(hh, v); err != nil {
		return Hash{}, fmt.Errorf("digest: encoding %s: %w", typeName, err)
	}
	return sum(hh), nil
}

// SumBytes is Sum for bytes that are already canonical.
func (h *Hasher) SumBytes(typeName string, canonical []byte) Hash {
	hh := h.alg.new()
	seed := h.Seed(typeName)
	hh.Write(seed[:])
	hh.Write(canonical)
	return sum(hh)
}

func sum(hh hash.Hash) Hash {
	var out Hash
	copy(out[:], hh.Sum(nil))
	return out
}

// Format returns the lowercase hex form of d.
func Format(d Hash) string {
	return hex.EncodeToString(d[:])
}

// Parse reads a 64-character hex digest.
func Parse(s string) (Hash, error) {
	var d Hash
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != len(d) {
		return d, fmt.Errorf("digest is %d bytes, want %d", len(decoded), len(d))
	}
	copy(d[:], decoded)
	return d, nil
}

// Fingerprint returns a 64-bit xxHash of v's encoding. It is meant for
// cache keys and deduplication, not for anything adversarial.
func Fingerprint(codec *bcs.Codec, v bcs.Serializable) (uint64, error) {
	d := xxhash.New()
	var err error
	if codec == nil {
		err = bcs.ToWriter(d, v)
	} else {
		err = codec.Encode(d, v)
	}
	if err != nil {
		return 0, err
	}
	return d.Sum64(), nil
}

// FingerprintBytes is Fingerprint for bytes that are already canonical.
func FingerprintBytes(canonical []byte) uint64 {
	return xxhash.Sum64(canonical)
}
