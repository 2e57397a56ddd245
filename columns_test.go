package tabula

import (
	"reflect"
	"testing"
)

type widget struct {
	Count int
	Label string
}

// TestPickleRoundTrip verifies a Pickle column round-trips a concrete gob-
// registered struct type through Set/Get.
func TestPickleRoundTrip(t *testing.T) {
	db := openDB(t)
	items, _ := db.Define(TableDef{
		Name:    "items",
		Columns: []ColumnDef{Pickle("meta", 64, OfType(reflect.TypeOf(widget{})))},
	})
	db.Connect()

	row, _ := items.Create()
	if err := row.Set("meta", widget{Count: 3, Label: "x"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := row.Get("meta")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	w, ok := got.(widget)
	if !ok || w.Count != 3 || w.Label != "x" {
		t.Errorf("meta = %#v, want widget{3, x}", got)
	}
}

// TestPickleTypeMismatchRejected verifies a Pickle column declared OfType
// rejects a value of a different concrete type.
func TestPickleTypeMismatchRejected(t *testing.T) {
	db := openDB(t)
	items, _ := db.Define(TableDef{
		Name:    "items",
		Columns: []ColumnDef{Pickle("meta", 64, OfType(reflect.TypeOf(widget{})))},
	})
	db.Connect()

	row, _ := items.Create()
	err := row.Set("meta", "not a widget")
	var mismatch *TypeMismatchError
	if err == nil {
		t.Fatal("Set did not reject mismatched pickle type")
	}
	if m, ok := err.(*TypeMismatchError); !ok {
		t.Fatalf("err = %v (%T), want *TypeMismatchError", err, err)
	} else {
		mismatch = m
	}
	if mismatch.Column != "meta" {
		t.Errorf("Column = %q, want meta", mismatch.Column)
	}
}

// TestPickleDefaultAppliesLazily verifies a Pickle column with no stored
// payload returns its declared default on Get without needing an explicit
// Set first.
func TestPickleDefaultAppliesLazily(t *testing.T) {
	db := openDB(t)
	items, _ := db.Define(TableDef{
		Name: "items",
		Columns: []ColumnDef{
			Pickle("meta", 64, DefaultValue(func() any { return widget{Count: -1, Label: "default"} })),
		},
	})
	db.Connect()

	row, _ := items.Create()
	got, err := row.Get("meta")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	w, ok := got.(widget)
	if !ok || w.Count != -1 {
		t.Errorf("meta = %#v, want default widget", got)
	}
}

// TestBlobColumnRoundTrip verifies a BytesBlob column writes its payload
// to a sidecar file and reads it back unchanged.
func TestBlobColumnRoundTrip(t *testing.T) {
	db := openDB(t)
	items, _ := db.Define(TableDef{
		Name:    "items",
		Columns: []ColumnDef{BytesBlob("payload")},
	})
	db.Connect()

	row, _ := items.Create()
	data := []byte("arbitrary binary content")
	if err := row.Set("payload", data); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := row.Get("payload")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.([]byte)) != string(data) {
		t.Errorf("payload = %q, want %q", got, data)
	}
}

// TestBlobColumnEmptyReadsNil verifies a blob column that was never set
// reads back as nil/empty rather than erroring on a missing sidecar file.
func TestBlobColumnEmptyReadsNil(t *testing.T) {
	db := openDB(t)
	items, _ := db.Define(TableDef{
		Name:    "items",
		Columns: []ColumnDef{BytesBlob("payload")},
	})
	db.Connect()

	row, _ := items.Create()
	got, err := row.Get("payload")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.([]byte)) != 0 {
		t.Errorf("payload = %v, want empty", got)
	}
}

// TestForeignDanglingReferenceReadsNil verifies a Foreign column whose
// referenced row has been destroyed reads back as a nil *Row rather than
// erroring, since no referential integrity is enforced.
func TestForeignDanglingReferenceReadsNil(t *testing.T) {
	db := openDB(t)
	authors, _ := db.Define(TableDef{Name: "authors", Columns: []ColumnDef{String("name", 8)}})
	books, _ := db.Define(TableDef{
		Name:    "books",
		Columns: []ColumnDef{Foreign("author", "authors")},
	})
	db.Connect()

	a, _ := authors.Create()
	b, _ := books.Create()
	b.Set("author", a)

	if err := a.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	got, err := b.Get("author")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	row, _ := got.(*Row)
	if row != nil {
		t.Errorf("author = %v, want nil *Row after target destroyed", row)
	}
}

// TestForeignWrongTableRejected verifies Set refuses a *Row that belongs
// to a different table than the column's declared target.
func TestForeignWrongTableRejected(t *testing.T) {
	db := openDB(t)
	authors, _ := db.Define(TableDef{Name: "authors", Columns: []ColumnDef{String("name", 8)}})
	other, _ := db.Define(TableDef{Name: "other", Columns: []ColumnDef{String("name", 8)}})
	books, _ := db.Define(TableDef{
		Name:    "books",
		Columns: []ColumnDef{Foreign("author", "authors")},
	})
	db.Connect()

	wrongRow, _ := other.Create()
	b, _ := books.Create()

	if err := b.Set("author", wrongRow); err == nil {
		t.Error("Set accepted a row from the wrong table")
	}
	_ = authors
}
