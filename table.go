// Table is the in-memory representation of one on-disk table: its
// compiled column list, its index catalog, and the live row set keyed by
// id. Row creation and destruction are centralized here so that id
// assignment, offset-density, and index population always happen
// together (spec.md §4.4), the same way the teacher centralizes document
// lifecycle operations in db.go rather than scattering them across
// caller code.
package tabula

import "path/filepath"

// Table holds one table's compiled schema, indices, and live rows.
type Table struct {
	db   *Database
	name string
	path string

	columns      []Column // id first, declared order
	columnByName map[string]Column

	virtual       []VirtualColumn
	virtualByName map[string]VirtualColumn

	// indices always begins with (id), (_offset,id), (_dirty,id), then
	// user-declared indices in declaration order (spec.md §4.3 and
	// SPEC_FULL.md §1's default-index ordering).
	indices     []*Index
	idIndex     *Index
	offsetIndex *Index
	dirtyIndex  *Index

	recordSize int
	rowsByID   map[uint32]*Row
	maxID      uint32

	fullDumpNeeded bool

	// schemaFingerprint is the diagnostic fingerprint (checksum.go) of
	// this table's current schema descriptor, kept in sync on every load
	// and save. priorSchemaFingerprint is set only when the most recent
	// Connect triggered a migration, holding the fingerprint of the
	// schema that was just replaced (SPEC_FULL.md §2.4).
	schemaFingerprint      string
	priorSchemaFingerprint string
}

// Name returns the table's declared name.
func (t *Table) Name() string { return t.name }

// Len reports the number of live rows.
func (t *Table) Len() int { return len(t.rowsByID) }

// SchemaFingerprint returns the diagnostic fingerprint of this table's
// current schema descriptor, as stored in its header.
func (t *Table) SchemaFingerprint() string { return t.schemaFingerprint }

// PriorSchemaFingerprint returns the fingerprint of the schema this table
// had on disk before its most recent Connect, or "" if that Connect did
// not trigger a migration. A host can compare it against
// SchemaFingerprint to log what changed without re-deriving either side.
func (t *Table) PriorSchemaFingerprint() string { return t.priorSchemaFingerprint }

func buildTable(db *Database, def TableDef) (*Table, error) {
	t := &Table{
		db:            db,
		name:          def.Name,
		path:          filepath.Join(db.dir, def.Name+".tbl"),
		columnByName:  map[string]Column{},
		virtualByName: map[string]VirtualColumn{},
		rowsByID:      map[uint32]*Row{},
	}

	idCol := &idColumn{base: base{name: "id"}}
	t.columns = append(t.columns, idCol)
	t.columnByName["id"] = idCol
	offset := idCol.FootprintSize()

	seen := map[string]bool{"id": true}
	for _, cd := range def.Columns {
		if seen[cd.Name] {
			return nil, &SchemaError{Table: def.Name, Reason: "duplicate column " + cd.Name, Cause: ErrDuplicateColumn}
		}
		seen[cd.Name] = true

		var col Column
		switch cd.Kind {
		case KindInt:
			col = newIntColumn(cd.Name)
		case KindBool:
			col = newBoolColumn(cd.Name)
		case KindForeign:
			col = newForeignColumn(cd.Name, cd.ForeignTable)
		case KindBytes, KindString, KindPickle:
			col = newBoundedColumn(cd)
		case KindBytesBlob, KindStringBlob, KindPickleBlob:
			col = newBlobColumn(cd)
		default:
			return nil, &SchemaError{Table: def.Name, Reason: "column " + cd.Name + " has no recognized kind"}
		}
		col.setOffset(offset)
		offset += col.FootprintSize()
		t.columns = append(t.columns, col)
		t.columnByName[cd.Name] = col
	}
	t.recordSize = offset

	for _, vd := range def.Virtual {
		var vc VirtualColumn
		switch vd.Kind {
		case VKindThrough:
			vc = newThroughColumn(vd)
		case VKindBelongs:
			vc = newBelongsColumn(vd)
		default:
			return nil, &SchemaError{Table: def.Name, Reason: "virtual column " + vd.Name + " has no recognized kind"}
		}
		t.virtual = append(t.virtual, vc)
		t.virtualByName[vd.Name] = vc
	}

	for _, c := range t.columns {
		c.setTable(t)
	}

	t.idIndex = newIndex("id")
	t.offsetIndex = newIndex("_offset", "id")
	t.dirtyIndex = newIndex("_dirty", "id")
	t.indices = []*Index{t.idIndex, t.offsetIndex, t.dirtyIndex}

	for _, tuple := range def.Indices {
		cols := tuple
		if len(cols) == 0 || cols[len(cols)-1] != "id" {
			cols = append(append([]string(nil), tuple...), "id")
		}
		t.indices = append(t.indices, newIndex(cols...))
	}

	return t, nil
}

// resolveRefs binds every Foreign column's target table and every
// Belongs virtual column's target table, once every table in the
// Database has been defined. Called by Database.Connect.
func (t *Table) resolveRefs(lookup func(string) (*Table, bool)) error {
	for _, c := range t.columns {
		if fc, ok := c.(*foreignColumn); ok {
			if err := fc.resolve(lookup); err != nil {
				return err
			}
		}
	}
	for _, v := range t.virtual {
		if bc, ok := v.(*belongsColumn); ok {
			if err := bc.resolve(lookup); err != nil {
				return err
			}
		}
	}
	return nil
}

// sortKeyFor returns the index-key contribution of column name for row,
// resolving the three pseudo-columns every index may reference (id,
// _offset, _dirty) in addition to any declared concrete column.
func (t *Table) sortKeyFor(name string, row *Row) keyPart {
	switch name {
	case "id":
		return uintPart(row.id)
	case "_offset":
		return intPart(int32(row.offset))
	case "_dirty":
		return boolPart(row.dirty)
	default:
		if c, ok := t.columnByName[name]; ok {
			return c.SortKey(row)
		}
		return keyPart{}
	}
}

// indicesOn returns every declared index (including the three defaults)
// whose key tuple includes colName, for withIndexMaintenance to remove
// and reinsert around a Set.
func (t *Table) indicesOn(colName string) []*Index {
	var out []*Index
	for _, ix := range t.indices {
		if ix.coversColumn(colName) {
			out = append(out, ix)
		}
	}
	return out
}

// rowByID returns the live row with the given id, if any.
func (t *Table) rowByID(id uint32) (*Row, bool) {
	r, ok := t.rowsByID[id]
	return r, ok
}

// rowsWhere does a full live-row scan returning every row whose column
// named key compares equal to part. Used by Belongs virtual columns,
// which have no declared index to accelerate their reverse lookup.
func (t *Table) rowsWhere(key string, part keyPart) ([]*Row, error) {
	var out []*Row
	for row := range t.offsetIndex.find(nil, false) {
		if t.sortKeyFor(key, row).compare(part) == 0 {
			out = append(out, row)
		}
	}
	return out, nil
}

// Reindex rebuilds every index from the live row set. Declared indices
// are always kept in sync incrementally by Set (spec.md §4.2); this is a
// defensive/recovery tool for after bulk loads or direct buffer
// manipulation, matching original_source/seaslug.py's Table.reindex.
func (t *Table) Reindex() {
	rows := make([]*Row, 0, len(t.rowsByID))
	for _, r := range t.rowsByID {
		rows = append(rows, r)
	}
	for _, ix := range t.indices {
		ix.entries = ix.entries[:0]
	}
	for _, ix := range t.indices {
		for _, r := range rows {
			ix.add(t, r)
		}
	}
}

// Max returns the largest value of column across every live row, by the
// same ordering an index over that column would use, or defaultValue if
// the table has no rows. Direct port of original_source/seaslug.py's
// Table.max.
func (t *Table) Max(column string, defaultValue any) any {
	var best *Row
	var bestKey keyPart
	found := false
	for _, r := range t.rowsByID {
		k := t.sortKeyFor(column, r)
		if !found || k.compare(bestKey) > 0 {
			bestKey = k
			best = r
			found = true
		}
	}
	if !found {
		return defaultValue
	}
	v, err := best.Get(column)
	if err != nil {
		return defaultValue
	}
	return v
}

// Create allocates a new row with the next monotonic id and the next
// dense offset, indexes it immediately, and marks it dirty and new
// (spec.md §4.4). Column values start at their zero representation;
// Pickle/PickleBlob columns with no stored payload report
// PickleDefault() until first Set.
func (t *Table) Create() (*Row, error) {
	t.maxID++
	row := &Row{
		table:  t,
		id:     t.maxID,
		offset: len(t.rowsByID),
		dirty:  true,
		new_:   true,
		buf:    make([]byte, t.recordSize),
	}
	for _, c := range t.columns {
		if err := c.Dump(row); err != nil {
			return nil, err
		}
	}
	t.rowsByID[row.id] = row
	row.loaded = true
	for _, ix := range t.indices {
		ix.add(t, row)
	}
	return row, nil
}

// destroy removes row from every index and the live row set, then
// relocates the highest-offset remaining row into the freed slot to
// preserve offset density, carrying over any sidecar blob files to their
// new offset-keyed paths.
func (t *Table) destroy(row *Row) error {
	if _, ok := t.rowsByID[row.id]; !ok {
		return ErrNotFound
	}

	for _, c := range t.columns {
		if bc, ok := c.(*blobColumn); ok {
			_ = bc.removeFiles(row.offset)
		}
	}

	for _, ix := range t.indices {
		ix.remove(t, row)
	}
	delete(t.rowsByID, row.id)

	freedOffset := row.offset
	newCount := len(t.rowsByID)
	if freedOffset < newCount {
		for _, r := range t.rowsByID {
			if r.offset == newCount {
				oldOffset := r.offset
				r.setOffset(freedOffset)
				r.markDirty(true)
				if err := t.relocateBlobs(oldOffset, freedOffset); err != nil {
					return err
				}
				break
			}
		}
	}
	// The file still has a record slot for the row just removed (or, with
	// no relocation above, for the one that used to sit at the tail); only
	// a full rewrite reliably shrinks the file to match, so an incremental
	// flush can't be trusted to reconcile offset-compaction on its own.
	t.fullDumpNeeded = true
	return nil
}

func (t *Table) relocateBlobs(oldOffset, newOffset int) error {
	for _, c := range t.columns {
		if bc, ok := c.(*blobColumn); ok {
			if err := bc.relocate(oldOffset, newOffset); err != nil {
				return err
			}
		}
	}
	return nil
}
