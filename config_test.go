// Configuration defaulting tests.
package tabula

import (
	"path/filepath"
	"testing"
)

// TestConfigDefaults verifies that a zero-value Config gets the documented
// defaults once opened: xxHash3 fingerprinting and a 64KB read buffer.
func TestConfigDefaults(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "db"), Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if db.config.ChecksumAlgorithm != ChecksumXXHash3 {
		t.Errorf("ChecksumAlgorithm = %d, want %d", db.config.ChecksumAlgorithm, ChecksumXXHash3)
	}
	if db.config.ReadBufferSize != 64*1024 {
		t.Errorf("ReadBufferSize = %d, want %d", db.config.ReadBufferSize, 64*1024)
	}
	if db.config.CompressBlobs {
		t.Error("CompressBlobs defaulted to true, want false")
	}
	if db.config.VerifyBlobChecksums {
		t.Error("VerifyBlobChecksums defaulted to true, want false")
	}
}

// TestConfigChecksumAlgorithmOverride verifies each checksum algorithm
// constant survives Open unchanged, and that the default only kicks in
// for the zero value.
func TestConfigChecksumAlgorithmOverride(t *testing.T) {
	tests := []struct {
		alg  int
		want int
	}{
		{0, ChecksumXXHash3},
		{ChecksumXXHash3, ChecksumXXHash3},
		{ChecksumFNV1a, ChecksumFNV1a},
		{ChecksumBlake2b, ChecksumBlake2b},
	}

	for _, tt := range tests {
		db, err := Open(filepath.Join(t.TempDir(), "db"), Config{ChecksumAlgorithm: tt.alg})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if db.config.ChecksumAlgorithm != tt.want {
			t.Errorf("ChecksumAlgorithm(%d) = %d, want %d", tt.alg, db.config.ChecksumAlgorithm, tt.want)
		}
		db.Close()
	}
}

// TestConfigReadBufferSizeOverride verifies a custom buffer size overrides
// the default rather than being clobbered by withDefaults.
func TestConfigReadBufferSizeOverride(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "db"), Config{ReadBufferSize: 128 * 1024})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if db.config.ReadBufferSize != 128*1024 {
		t.Errorf("ReadBufferSize = %d, want %d", db.config.ReadBufferSize, 128*1024)
	}
}

// TestConfigCompressAndVerifyFlagsPropagate verifies the boolean flags are
// carried through to the Database unchanged, since withDefaults only fills
// in the zero-value numeric fields.
func TestConfigCompressAndVerifyFlagsPropagate(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "db"), Config{CompressBlobs: true, VerifyBlobChecksums: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if !db.config.CompressBlobs {
		t.Error("CompressBlobs not propagated")
	}
	if !db.config.VerifyBlobChecksums {
		t.Error("VerifyBlobChecksums not propagated")
	}
}
