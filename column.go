// Column is the common contract every concrete (persisted) column
// implements: translate between a logical value and a fixed region of the
// record, plus the load/dump lifecycle hooks spec.md §4.2 requires. Index
// and dirty-flag maintenance is centralized in withIndexMaintenance rather
// than duplicated per column type (spec.md §9's "centralize in Row.Set"
// guidance, adapted: Go has no single dynamic dispatch point analogous to
// a descriptor's __set__, so each concrete column's Set calls the shared
// helper itself).
package tabula

import "reflect"

// Column is implemented by every concrete (on-disk) column kind.
type Column interface {
	Name() string
	Kind() Kind

	// FootprintSize is this column's fixed byte width in the record
	// (0 for *Blob kinds, whose payload is external).
	FootprintSize() int

	// Offset is this column's byte offset within the record, assigned
	// once when the table is built.
	Offset() int
	setOffset(off int)

	// Load is called once per row read from disk, after the record bytes
	// are in the row's buffer. Only the id column does work here (it
	// copies the stored id into the row); other kinds read the buffer or
	// their sidecar file directly on every Get.
	Load(row *Row) error

	// Dump is called once per row before its record bytes are written to
	// disk, and once at row creation. Only the id column does work here
	// (it writes the row's id into the buffer); other kinds write the
	// buffer or their sidecar file directly in Set.
	Dump(row *Row) error

	// LoadCol/DumpCol run once per file operation rather than once per
	// row (e.g. creating a sidecar directory).
	LoadCol() error
	DumpCol() error

	// Get returns this column's current logical value for row.
	Get(row *Row) (any, error)

	// Set validates and stores value, maintaining every index that
	// covers this column and marking row dirty. Validation happens
	// before any index or byte mutation: a rejected Set leaves row
	// unchanged.
	Set(row *Row, value any) error

	// SortKey returns this column's contribution to an index key for
	// row. Distinct from Get because Foreign columns sort by the
	// referenced row's id, not by the resolved *Row value.
	SortKey(row *Row) keyPart

	// setTable binds the column to its owning table once, at table-build
	// time, so e.g. blob columns can derive their sidecar directory path.
	setTable(t *Table)
	table() *Table
}

// base holds the fields every concrete column needs regardless of kind.
type base struct {
	name   string
	offset int
	tbl    *Table
}

func (b *base) Name() string    { return b.name }
func (b *base) Offset() int     { return b.offset }
func (b *base) setOffset(o int) { b.offset = o }
func (b *base) LoadCol() error  { return nil }
func (b *base) DumpCol() error  { return nil }
func (b *base) setTable(t *Table) { b.tbl = t }
func (b *base) table() *Table   { return b.tbl }

// withIndexMaintenance runs mutate, removing row from every index that
// covers colName beforehand (if row is already loaded/indexed) and
// reinserting afterward, then marking row dirty. If row has not finished
// its initial load, indices are untouched — they are populated once in a
// single pass at the end of load (spec.md §4.2).
//
// mutate must have already validated its input: withIndexMaintenance
// assumes mutate cannot fail in a way that requires the row to remain
// consistent, but reinserts regardless to be defensive about bugs in
// mutate.
func withIndexMaintenance(row *Row, colName string, mutate func() error) error {
	if !row.loaded {
		return mutate()
	}
	touched := row.table.indicesOn(colName)
	for _, ix := range touched {
		ix.remove(row.table, row)
	}
	err := mutate()
	for _, ix := range touched {
		ix.add(row.table, row)
	}
	if err != nil {
		return err
	}
	row.markDirty(true)
	return nil
}

// pickleTyped extracts the declared PickleType from a Pickle/PickleBlob
// column, if any, for inclusion in the schema descriptor's diagnostic
// PickleType field.
func pickleTyped(c Column) (reflect.Type, bool) {
	switch v := c.(type) {
	case *boundedColumn:
		if v.kind == KindPickle {
			return v.pickleType, true
		}
	case *blobColumn:
		if v.kind == KindPickleBlob {
			return v.pickleType, true
		}
	}
	return nil, false
}
