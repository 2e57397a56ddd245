// Best-effort schema migration (spec.md §4.6): when a table file's
// stored schema descriptor differs from the declared one, a shadow table
// is reconstructed purely from the stored descriptor bytes — never
// registered with the live Database — and every old row is read through
// it and copied into a freshly built row of the real table via the
// normal public Set path, column by column, by name. A declared column
// absent from the old schema is left at its zero value (Pickle/PickleBlob
// columns fall back to their declared default the first time they're
// read, rather than being eagerly seeded — see columns_inline.go and
// columns_blob.go's Get). A full rewrite is forced on the next Save so
// the file's header reflects the new schema.
package tabula

import (
	"bufio"
	"io"
)

func migrateTable(t *Table, storedBytes []byte, f io.Reader) error {
	desc, err := decodeSchema(storedBytes)
	if err != nil {
		return &MigrationError{Table: t.name, Cause: err}
	}
	shadow, err := buildShadowTable(t, desc)
	if err != nil {
		return &MigrationError{Table: t.name, Cause: err}
	}

	br := bufio.NewReaderSize(f, t.db.config.ReadBufferSize)
	offset := 0
	for {
		buf := make([]byte, shadow.recordSize)
		_, rerr := io.ReadFull(br, buf)
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			return &MigrationError{Table: t.name, Cause: rerr}
		}

		oldRow := &Row{table: shadow, offset: offset, buf: buf}
		for _, c := range shadow.columns {
			if err := c.Load(oldRow); err != nil {
				return &MigrationError{Table: t.name, Cause: err}
			}
		}

		newRow := &Row{table: t, id: oldRow.id, offset: offset, buf: make([]byte, t.recordSize)}
		for _, c := range t.columns {
			if err := c.Dump(newRow); err != nil {
				return &MigrationError{Table: t.name, Cause: err}
			}
		}

		if err := copyCommonColumns(t, shadow, oldRow, newRow); err != nil {
			return &MigrationError{Table: t.name, Cause: err}
		}

		if newRow.id > t.maxID {
			t.maxID = newRow.id
		}
		t.rowsByID[newRow.id] = newRow
		offset++
	}

	for _, row := range t.rowsByID {
		row.loaded = true
	}
	t.Reindex()
	t.fullDumpNeeded = true
	return nil
}

// copyCommonColumns copies every column present (by name and by
// unchanged kind) in both the old shadow schema and the new declared
// schema from oldRow to newRow via the public Set path. A column whose
// kind changed, or that no longer exists, is skipped — best-effort,
// per spec.md §4.6.
func copyCommonColumns(newTable, shadow *Table, oldRow, newRow *Row) error {
	for _, oc := range shadow.columns {
		name := oc.Name()
		if name == "id" {
			continue
		}
		nc, ok := newTable.columnByName[name]
		if !ok || nc.Kind() != oc.Kind() {
			continue
		}

		var value any
		var err error
		if fc, ok := oc.(*foreignColumn); ok {
			value = fc.rawID(oldRow)
		} else {
			value, err = oc.Get(oldRow)
			if err != nil {
				return err
			}
		}
		if value == nil {
			continue
		}
		if err := newRow.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// buildShadowTable compiles a *Table purely from a stored schema
// descriptor, with no Foreign/Belongs resolution and never registered
// with a Database — it exists only long enough to decode the old file's
// records.
func buildShadowTable(t *Table, desc schemaDescriptor) (*Table, error) {
	shadow := &Table{db: t.db, name: t.name, rowsByID: map[uint32]*Row{}}
	offset := 0
	for _, sc := range desc.Columns {
		var col Column
		switch sc.Kind {
		case KindInt:
			if sc.Name == "id" {
				col = &idColumn{base: base{name: "id"}}
			} else {
				col = newIntColumn(sc.Name)
			}
		case KindBool:
			col = newBoolColumn(sc.Name)
		case KindForeign:
			col = newForeignColumn(sc.Name, sc.ForeignTable)
		case KindBytes, KindString, KindPickle:
			col = newBoundedColumn(ColumnDef{Name: sc.Name, Kind: sc.Kind, Size: sc.Size})
		case KindBytesBlob, KindStringBlob, KindPickleBlob:
			col = newBlobColumn(ColumnDef{Name: sc.Name, Kind: sc.Kind})
		default:
			return nil, &SchemaError{Table: t.name, Reason: "stored column " + sc.Name + " has no recognized kind"}
		}
		col.setOffset(offset)
		offset += col.FootprintSize()
		shadow.columns = append(shadow.columns, col)
	}
	shadow.recordSize = offset
	for _, c := range shadow.columns {
		c.setTable(shadow)
	}
	return shadow, nil
}
