// Fixed-width scalar columns: the implicit leading id column, signed
// 32-bit Int, and 1-byte Bool. These never touch a sidecar and their
// logical value equals their on-disk bytes directly, so Get/Set read and
// write the record buffer in place on every access (spec.md §4.1).
package tabula

import "encoding/binary"

// idColumn is the implicit, always-first column of every table. It is
// never exposed through Row.Set (Row.Set("id", ...) returns ErrReadOnly)
// but participates in the record layout and schema descriptor like any
// other column, matching original_source/seaslug.py inserting an
// IntColumn named "id" as cls.columns[0].
type idColumn struct{ base }

func (c *idColumn) Kind() Kind              { return KindInt }
func (c *idColumn) FootprintSize() int      { return 4 }
func (c *idColumn) Get(r *Row) (any, error) { return r.id, nil }
func (c *idColumn) Set(r *Row, v any) error { return ErrReadOnly }
func (c *idColumn) SortKey(r *Row) keyPart  { return uintPart(r.id) }

func (c *idColumn) Load(r *Row) error {
	r.id = binary.LittleEndian.Uint32(r.buf[c.offset : c.offset+4])
	return nil
}

func (c *idColumn) Dump(r *Row) error {
	binary.LittleEndian.PutUint32(r.buf[c.offset:c.offset+4], r.id)
	return nil
}

// intColumn stores a signed 32-bit integer inline.
type intColumn struct{ base }

func newIntColumn(name string) *intColumn { return &intColumn{base{name: name, offset: 0}} }

func (c *intColumn) Kind() Kind         { return KindInt }
func (c *intColumn) FootprintSize() int { return 4 }

func (c *intColumn) Load(r *Row) error { return nil }
func (c *intColumn) Dump(r *Row) error { return nil }

func (c *intColumn) Get(r *Row) (any, error) {
	return int32(binary.LittleEndian.Uint32(r.buf[c.offset : c.offset+4])), nil
}

func (c *intColumn) Set(r *Row, value any) error {
	v, err := toInt32(c.name, value)
	if err != nil {
		return err
	}
	return withIndexMaintenance(r, c.name, func() error {
		binary.LittleEndian.PutUint32(r.buf[c.offset:c.offset+4], uint32(v))
		return nil
	})
}

func (c *intColumn) SortKey(r *Row) keyPart {
	return intPart(int32(binary.LittleEndian.Uint32(r.buf[c.offset : c.offset+4])))
}

func toInt32(col string, value any) (int32, error) {
	switch v := value.(type) {
	case int32:
		return v, nil
	case int:
		return int32(v), nil
	case int64:
		return int32(v), nil
	case uint32:
		return int32(v), nil
	default:
		return 0, &SchemaError{Reason: "column " + col + " requires an integer value"}
	}
}

// boolColumn stores a single boolean inline, occupying 1 byte.
type boolColumn struct{ base }

func newBoolColumn(name string) *boolColumn { return &boolColumn{base{name: name}} }

func (c *boolColumn) Kind() Kind         { return KindBool }
func (c *boolColumn) FootprintSize() int { return 1 }

func (c *boolColumn) Load(r *Row) error { return nil }
func (c *boolColumn) Dump(r *Row) error { return nil }

func (c *boolColumn) Get(r *Row) (any, error) {
	return r.buf[c.offset] != 0, nil
}

func (c *boolColumn) Set(r *Row, value any) error {
	v, ok := value.(bool)
	if !ok {
		return &SchemaError{Reason: "column " + c.name + " requires a bool value"}
	}
	return withIndexMaintenance(r, c.name, func() error {
		if v {
			r.buf[c.offset] = 1
		} else {
			r.buf[c.offset] = 0
		}
		return nil
	})
}

func (c *boolColumn) SortKey(r *Row) keyPart {
	return boolPart(r.buf[c.offset] != 0)
}
