// Foreign columns store the id of a row in another table inline, as an
// unsigned 32-bit integer with 0 meaning "absent" (spec.md §3). The target
// table is named at declaration time and resolved to a live *Table once,
// at Database.Connect, after every table has been registered — Go has no
// way to reference a table value before it exists, so resolution is
// necessarily late-bound (unlike original_source/seaslug.py's descriptor,
// which resolves its target class lazily on first access instead).
package tabula

import "encoding/binary"

type foreignColumn struct {
	base
	targetName string
	target     *Table
}

func newForeignColumn(name, targetName string) *foreignColumn {
	return &foreignColumn{base: base{name: name}, targetName: targetName}
}

func (c *foreignColumn) Kind() Kind         { return KindForeign }
func (c *foreignColumn) FootprintSize() int { return 4 }

func (c *foreignColumn) Load(r *Row) error { return nil }
func (c *foreignColumn) Dump(r *Row) error { return nil }

// resolve binds c.target, called once by Database.Connect after every
// declared table is registered. Returns SchemaError{Cause:
// ErrUnknownForeignTable} if targetName was never defined.
func (c *foreignColumn) resolve(lookup func(name string) (*Table, bool)) error {
	t, ok := lookup(c.targetName)
	if !ok {
		return &SchemaError{
			Table:  c.tbl.name,
			Reason: "column " + c.name + " references unregistered table " + c.targetName,
			Cause:  ErrUnknownForeignTable,
		}
	}
	c.target = t
	return nil
}

func (c *foreignColumn) rawID(r *Row) uint32 {
	return binary.LittleEndian.Uint32(r.buf[c.offset : c.offset+4])
}

// Get resolves the stored id against the target table's live row set,
// returning nil (not an error) when the stored id is 0 or no longer
// names a live row — a dangling reference is a normal possibility since
// there is no referential-integrity enforcement (spec.md §1 Non-goals).
func (c *foreignColumn) Get(r *Row) (any, error) {
	id := c.rawID(r)
	if id == 0 {
		return (*Row)(nil), nil
	}
	row, ok := c.target.rowByID(id)
	if !ok {
		return (*Row)(nil), nil
	}
	return row, nil
}

// Set accepts a *Row belonging to the target table, or nil to clear the
// reference. Passing a row of the wrong table is a SchemaError.
func (c *foreignColumn) Set(r *Row, value any) error {
	var id uint32
	switch v := value.(type) {
	case nil:
		id = 0
	case *Row:
		if v == nil {
			id = 0
		} else {
			if v.table != c.target {
				return &SchemaError{Table: c.tbl.name, Reason: "column " + c.name + " requires a row of table " + c.target.name}
			}
			id = v.id
		}
	case uint32:
		id = v
	default:
		return &SchemaError{Table: c.tbl.name, Reason: "column " + c.name + " requires a *Row or row id"}
	}
	return withIndexMaintenance(r, c.name, func() error {
		binary.LittleEndian.PutUint32(r.buf[c.offset:c.offset+4], id)
		return nil
	})
}

func (c *foreignColumn) SortKey(r *Row) keyPart {
	return uintPart(c.rawID(r))
}
