// Row is the in-memory handle for one record: a fixed-size byte buffer
// plus the non-persisted bookkeeping fields spec.md §3 requires (_offset,
// _dirty, _new, _loaded). Offset and dirty mutations go through
// setOffset/markDirty, which use indicesOn to remove/reinsert every
// index touching that pseudo-column, not just the default (_offset,id)
// and (_dirty,id) indices, so a user-declared index keyed on _offset or
// _dirty stays in sync too. Mirrors the property-setter pattern in
// original_source/seaslug.py's Row._dirty.
package tabula

// Row is one record of a Table, live in memory.
type Row struct {
	table *Table

	id     uint32
	offset int
	dirty  bool
	new_   bool
	loaded bool

	buf []byte // raw record bytes, table.recordSize long; every concrete
	// column reads and writes its logical value directly at its fixed
	// offset within buf (or, for blob columns, at an offset-keyed
	// sidecar path) rather than through an out-of-band cache.
}

// ID returns the row's permanent, monotonically assigned identifier.
// Zero is never a live id; it denotes "absent" in a Foreign column.
func (r *Row) ID() uint32 { return r.id }

// Offset returns the row's current 0-based slot in the table file.
func (r *Row) Offset() int { return r.offset }

// Dirty reports whether r has unsaved changes.
func (r *Row) Dirty() bool { return r.dirty }

// New reports whether r has never been written to disk.
func (r *Row) New() bool { return r.new_ }

func (r *Row) setOffset(v int) {
	if v == r.offset {
		return
	}
	var touched []*Index
	if r.loaded {
		touched = r.table.indicesOn("_offset")
		for _, ix := range touched {
			ix.remove(r.table, r)
		}
	}
	r.offset = v
	for _, ix := range touched {
		ix.add(r.table, r)
	}
}

func (r *Row) markDirty(v bool) {
	if v == r.dirty {
		return
	}
	var touched []*Index
	if r.loaded {
		touched = r.table.indicesOn("_dirty")
		for _, ix := range touched {
			ix.remove(r.table, r)
		}
	}
	r.dirty = v
	for _, ix := range touched {
		ix.add(r.table, r)
	}
}

// Get returns the current value of the named column or virtual column.
func (r *Row) Get(name string) (any, error) {
	if name == "id" {
		return r.id, nil
	}
	if c, ok := r.table.columnByName[name]; ok {
		return c.Get(r)
	}
	if v, ok := r.table.virtualByName[name]; ok {
		return v.Get(r)
	}
	return nil, &SchemaError{Table: r.table.name, Reason: "unknown column " + name, Cause: ErrUnknownColumn}
}

// Set validates and stores value on the named concrete column. Virtual
// columns and "id" always return ErrReadOnly.
func (r *Row) Set(name string, value any) error {
	if name == "id" {
		return ErrReadOnly
	}
	if c, ok := r.table.columnByName[name]; ok {
		return c.Set(r, value)
	}
	if _, ok := r.table.virtualByName[name]; ok {
		return ErrReadOnly
	}
	return &SchemaError{Table: r.table.name, Reason: "unknown column " + name, Cause: ErrUnknownColumn}
}

// Destroy removes r from its table: every index, and the live row set.
// The highest-offset remaining row (if any) is relocated into the freed
// slot and marked dirty, preserving offset density (spec.md §4.4).
func (r *Row) Destroy() error {
	return r.table.destroy(r)
}
