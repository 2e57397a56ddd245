// Database-wide configuration, mirroring the teacher's Config shape and
// zero-value-means-default policy (SPEC_FULL.md §2.2).
package tabula

// Config holds database-wide configuration options. The zero value is
// valid: Open fills in defaults for any field left unset.
type Config struct {
	// ChecksumAlgorithm selects the diagnostic schema fingerprint written
	// to each table's header (checksum.go). 0 defaults to ChecksumXXHash3.
	ChecksumAlgorithm int

	// CompressBlobs zstd-compresses sidecar blob payloads
	// (Bytes/String/PickleBlob columns) before they hit disk.
	CompressBlobs bool

	// VerifyBlobChecksums writes a sidecar .sum file alongside every blob
	// and checks it whenever the blob is read, surfacing a mismatch as IoError{Cause:
	// ErrChecksumMismatch} instead of returning corrupted bytes silently.
	VerifyBlobChecksums bool

	// ReadBufferSize sizes the buffer used for sequential scans during
	// Load and migration. Default 64KiB.
	ReadBufferSize int
}

func (c Config) withDefaults() Config {
	if c.ChecksumAlgorithm == 0 {
		c.ChecksumAlgorithm = ChecksumXXHash3
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = 64 * 1024
	}
	return c
}
