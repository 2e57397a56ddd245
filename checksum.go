// Diagnostic fingerprint algorithms for table headers (SPEC_FULL.md §2.4).
// Adapted from the teacher's hash.go algorithm table; unlike the teacher's
// _id hash (which is load-bearing identity), this fingerprint is never
// consulted to decide migration — spec.md §4.5 requires raw schema
// descriptor byte-equality for that — it exists only so a host can log a
// short "schema changed from X to Y" diagnostic without re-deriving it.
package tabula

import (
	"fmt"
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Checksum algorithm constants, selectable via Config.ChecksumAlgorithm.
const (
	ChecksumXXHash3 = 1 // Default, fastest
	ChecksumFNV1a   = 2 // No external dependencies
	ChecksumBlake2b = 3 // Best distribution
)

// fingerprint produces a 16 hex character diagnostic digest of data using
// the selected algorithm.
func fingerprint(data []byte, alg int) string {
	switch alg {
	case ChecksumXXHash3:
		return fmt.Sprintf("%016x", xxh3.Hash(data))
	case ChecksumFNV1a:
		h := fnv.New64a()
		h.Write(data)
		return fmt.Sprintf("%016x", h.Sum64())
	case ChecksumBlake2b:
		h, _ := blake2b.New(8, nil)
		h.Write(data)
		return fmt.Sprintf("%016x", h.Sum(nil))
	default:
		return fmt.Sprintf("%016x", xxh3.Hash(data))
	}
}
