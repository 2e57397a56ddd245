// Optional zstd compression for sidecar blob payloads, gated by
// Config.CompressBlobs (SPEC_FULL.md §3). Adapted from the teacher's
// compress.go: same shared-encoder/fastest-level design, but sidecar
// files are raw binary rather than text embedded in a JSON document, so
// the ascii85 printable-encoding stage is dropped entirely.
package tabula

import (
	"github.com/klauspost/compress/zstd"
)

// Shared encoder/decoder, built once — zstd encoder/decoder construction
// allocates internal state tables and is too costly to repeat per blob.
//
// SpeedFastest: blob writes happen on every Set of a blob column while
// reads happen only when the column's value is read, so encode speed
// is prioritized over ratio, matching the teacher's write/read asymmetry
// rationale.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDecoder, _ = zstd.NewReader(nil)
)

func compressBlob(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	return zstdEncoder.EncodeAll(data, nil)
}

func decompressBlob(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return zstdDecoder.DecodeAll(data, nil)
}
