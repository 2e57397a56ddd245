// Bounded inline columns: Bytes/String/Pickle. Each reserves a fixed
// 4-byte length prefix plus N bytes of capacity in the record (spec.md
// §3); the record never grows regardless of the value's actual size, and
// a value whose encoded form exceeds N is rejected with
// ValueTooLargeError before anything is written.
//
// Bytes and String differ from Pickle only in their codec (raw bytes vs.
// UTF-8 vs. gob-encoded value) — spec.md §9's "two orthogonal traits"
// note, expressed here as one struct plus a small codec switch rather
// than a separate interface, since Go's lack of the Python source's
// descriptor protocol makes a single concrete type simpler than a
// strategy-object pair for just three codecs.
package tabula

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"reflect"
)

type boundedColumn struct {
	base
	kind          Kind
	size          int
	pickleType    reflect.Type
	pickleDefault func() any
}

func newBoundedColumn(def ColumnDef) *boundedColumn {
	c := &boundedColumn{
		base:          base{name: def.Name},
		kind:          def.Kind,
		size:          def.Size,
		pickleType:    def.PickleType,
		pickleDefault: def.PickleDefault,
	}
	if c.kind == KindPickle && c.pickleType != nil {
		gob.RegisterName("tabula."+def.Name, reflect.Zero(c.pickleType).Interface())
	}
	return c
}

func (c *boundedColumn) Kind() Kind         { return c.kind }
func (c *boundedColumn) FootprintSize() int { return 4 + c.size }

func (c *boundedColumn) Load(r *Row) error { return nil }
func (c *boundedColumn) Dump(r *Row) error { return nil }

func (c *boundedColumn) length(r *Row) int {
	return int(binary.LittleEndian.Uint32(r.buf[c.offset : c.offset+4]))
}

func (c *boundedColumn) payload(r *Row) []byte {
	n := c.length(r)
	return r.buf[c.offset+4 : c.offset+4+n]
}

// writeRaw encodes data into the record; the caller (Set) has already
// checked data fits within c.size before any index is touched.
func (c *boundedColumn) writeRaw(r *Row, data []byte) error {
	binary.LittleEndian.PutUint32(r.buf[c.offset:c.offset+4], uint32(len(data)))
	region := r.buf[c.offset+4 : c.offset+4+c.size]
	clear(region)
	copy(region, data)
	return nil
}

func (c *boundedColumn) Get(r *Row) (any, error) {
	switch c.kind {
	case KindBytes:
		raw := c.payload(r)
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	case KindString:
		return string(c.payload(r)), nil
	case KindPickle:
		raw := c.payload(r)
		if len(raw) == 0 {
			if c.pickleDefault != nil {
				return c.pickleDefault(), nil
			}
			return nil, nil
		}
		var v any
		if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&v); err != nil {
			return nil, &IoError{Path: c.name, Cause: err}
		}
		return v, nil
	default:
		return nil, &SchemaError{Reason: "unhandled inline column kind"}
	}
}

func (c *boundedColumn) Set(r *Row, value any) error {
	var encoded []byte
	switch c.kind {
	case KindBytes:
		b, ok := value.([]byte)
		if !ok {
			return &SchemaError{Reason: "column " + c.name + " requires []byte"}
		}
		encoded = b
	case KindString:
		s, ok := value.(string)
		if !ok {
			return &SchemaError{Reason: "column " + c.name + " requires a string"}
		}
		encoded = []byte(s)
	case KindPickle:
		if c.pickleType != nil && value != nil && reflect.TypeOf(value) != c.pickleType {
			return &TypeMismatchError{Column: c.name, Expected: c.pickleType, Got: reflect.TypeOf(value)}
		}
		if value == nil {
			encoded = nil
		} else {
			var buf bytes.Buffer
			if err := gob.NewEncoder(&buf).Encode(&value); err != nil {
				return &IoError{Path: c.name, Cause: err}
			}
			encoded = buf.Bytes()
			// value is encoded through a pointer-to-interface so Decode's
			// matching &v any receiver can recover the concrete type gob
			// registered it under.
		}
	}
	if len(encoded) > c.size {
		return &ValueTooLargeError{Column: c.name, Capacity: c.size, Got: len(encoded)}
	}
	return withIndexMaintenance(r, c.name, func() error {
		return c.writeRaw(r, encoded)
	})
}

// SortKey orders a bounded column by its raw payload bytes. Pickle
// columns are rarely declared as an index key, but comparing their
// encoded bytes still gives a stable, if not semantically meaningful,
// order.
func (c *boundedColumn) SortKey(r *Row) keyPart {
	return stringPart(string(c.payload(r)))
}
