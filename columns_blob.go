// Sidecar-backed blob columns: BytesBlob/StringBlob/PickleBlob. These
// carry no inline footprint in the record; the payload lives in
// <Table>_<col>/<offset>.dat, named by the row's current _offset rather
// than its id, since offset is what a sequential scan already has to
// hand during Load (spec.md §3). LoadCol/DumpCol create the sidecar
// directory once per table-file operation rather than once per row.
package tabula

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
)

type blobColumn struct {
	base
	kind          Kind
	pickleType    reflect.Type
	pickleDefault func() any
	dir           string
}

func newBlobColumn(def ColumnDef) *blobColumn {
	c := &blobColumn{
		base:          base{name: def.Name},
		kind:          def.Kind,
		pickleType:    def.PickleType,
		pickleDefault: def.PickleDefault,
	}
	if c.kind == KindPickleBlob && c.pickleType != nil {
		gob.RegisterName("tabula.blob."+def.Name, reflect.Zero(c.pickleType).Interface())
	}
	return c
}

func (c *blobColumn) Kind() Kind         { return c.kind }
func (c *blobColumn) FootprintSize() int { return 0 }

func (c *blobColumn) setTable(t *Table) {
	c.base.setTable(t)
	c.dir = filepath.Join(t.db.dir, t.name+"_"+c.name)
}

func (c *blobColumn) LoadCol() error {
	return os.MkdirAll(c.dir, 0o755)
}

func (c *blobColumn) DumpCol() error {
	return os.MkdirAll(c.dir, 0o755)
}

func (c *blobColumn) path(offset int) string {
	return filepath.Join(c.dir, strconv.Itoa(offset)+".dat")
}

func (c *blobColumn) Load(r *Row) error { return nil }
func (c *blobColumn) Dump(r *Row) error { return nil }

func (c *blobColumn) readRaw(r *Row) ([]byte, error) {
	path := c.path(r.offset)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &IoError{Path: path, Cause: err}
	}
	if r.table.db.config.VerifyBlobChecksums {
		sum, serr := os.ReadFile(path + ".sum")
		if serr == nil {
			if fingerprint(raw, r.table.db.config.ChecksumAlgorithm) != string(sum) {
				return nil, &IoError{Path: path, Cause: ErrChecksumMismatch}
			}
		}
	}
	if r.table.db.config.CompressBlobs {
		return decompressBlob(raw)
	}
	return raw, nil
}

func (c *blobColumn) writeRaw(r *Row, data []byte) error {
	path := c.path(r.offset)
	payload := data
	if r.table.db.config.CompressBlobs {
		payload = compressBlob(data)
	}
	if len(payload) == 0 {
		_ = os.Remove(path)
		_ = os.Remove(path + ".sum")
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return &IoError{Path: c.dir, Cause: err}
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return &IoError{Path: path, Cause: err}
	}
	if r.table.db.config.VerifyBlobChecksums {
		sum := fingerprint(payload, r.table.db.config.ChecksumAlgorithm)
		if err := os.WriteFile(path+".sum", []byte(sum), 0o644); err != nil {
			return &IoError{Path: path + ".sum", Cause: err}
		}
	}
	return nil
}

func (c *blobColumn) Get(r *Row) (any, error) {
	raw, err := c.readRaw(r)
	if err != nil {
		return nil, err
	}
	switch c.kind {
	case KindBytesBlob:
		return raw, nil
	case KindStringBlob:
		return string(raw), nil
	case KindPickleBlob:
		if len(raw) == 0 {
			if c.pickleDefault != nil {
				return c.pickleDefault(), nil
			}
			return nil, nil
		}
		var v any
		if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&v); err != nil {
			return nil, &IoError{Path: c.path(r.offset), Cause: err}
		}
		return v, nil
	default:
		return nil, &SchemaError{Reason: "unhandled blob column kind"}
	}
}

func (c *blobColumn) Set(r *Row, value any) error {
	var encoded []byte
	switch c.kind {
	case KindBytesBlob:
		b, ok := value.([]byte)
		if !ok {
			return &SchemaError{Reason: "column " + c.name + " requires []byte"}
		}
		encoded = b
	case KindStringBlob:
		s, ok := value.(string)
		if !ok {
			return &SchemaError{Reason: "column " + c.name + " requires a string"}
		}
		encoded = []byte(s)
	case KindPickleBlob:
		if c.pickleType != nil && value != nil && reflect.TypeOf(value) != c.pickleType {
			return &TypeMismatchError{Column: c.name, Expected: c.pickleType, Got: reflect.TypeOf(value)}
		}
		if value != nil {
			var buf bytes.Buffer
			if err := gob.NewEncoder(&buf).Encode(&value); err != nil {
				return &IoError{Path: c.name, Cause: err}
			}
			encoded = buf.Bytes()
		}
	}
	return withIndexMaintenance(r, c.name, func() error {
		return c.writeRaw(r, encoded)
	})
}

// SortKey treats a blob column's contribution as its string form; blob
// columns are not expected to anchor a declared index (they carry no
// inline footprint to scan cheaply) but nothing prevents declaring one.
func (c *blobColumn) SortKey(r *Row) keyPart {
	raw, _ := c.readRaw(r)
	return stringPart(string(raw))
}

// removeFiles deletes the sidecar payload and checksum for offset,
// called when the row at that offset is destroyed.
func (c *blobColumn) removeFiles(offset int) error {
	path := c.path(offset)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &IoError{Path: path, Cause: err}
	}
	_ = os.Remove(path + ".sum")
	return nil
}

// relocate moves offset-keyed sidecar files when offset-compaction
// reassigns a row to a new slot (table.go's destroy).
func (c *blobColumn) relocate(oldOffset, newOffset int) error {
	oldPath := c.path(oldOffset)
	newPath := c.path(newOffset)
	if _, err := os.Stat(oldPath); err == nil {
		if err := os.Rename(oldPath, newPath); err != nil {
			return &IoError{Path: oldPath, Cause: err}
		}
	}
	oldSum, newSum := oldPath+".sum", newPath+".sum"
	if _, err := os.Stat(oldSum); err == nil {
		_ = os.Rename(oldSum, newSum)
	}
	return nil
}
