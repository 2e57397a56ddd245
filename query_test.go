package tabula

import "testing"

func buildItemsTable(t *testing.T) (*Database, *Table) {
	t.Helper()
	db := openDB(t)
	items, err := db.Define(TableDef{
		Name: "items",
		Columns: []ColumnDef{
			String("sku", 16),
			Int("quantity"),
		},
		Indices: [][]string{{"quantity"}},
	})
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := db.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return db, items
}

// TestWhereEqualityUsesDeclaredIndex verifies an equality predicate on an
// indexed column returns exactly the matching rows.
func TestWhereEqualityUsesDeclaredIndex(t *testing.T) {
	_, items := buildItemsTable(t)

	a, _ := items.Create()
	a.Set("sku", "A1")
	a.Set("quantity", int32(5))
	b, _ := items.Create()
	b.Set("sku", "B2")
	b.Set("quantity", int32(5))
	c, _ := items.Create()
	c.Set("sku", "C3")
	c.Set("quantity", int32(9))

	var got []string
	for row, err := range items.Where(Eq("quantity", int32(5))) {
		if err != nil {
			t.Fatalf("Where: %v", err)
		}
		sku, _ := row.Get("sku")
		got = append(got, sku.(string))
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2: %v", len(got), got)
	}
}

// TestWhereRangeComparison verifies a Ge comparison on an indexed column
// yields exactly the rows at or above the pivot (Le is covered by
// TestWhereLeIncludesPivotValue).
func TestWhereRangeComparison(t *testing.T) {
	_, items := buildItemsTable(t)

	for i := 0; i < 5; i++ {
		r, _ := items.Create()
		r.Set("sku", "S")
		r.Set("quantity", int32(i*10))
	}

	var count int
	for row, err := range items.Where(Ge("quantity", int32(20))) {
		if err != nil {
			t.Fatalf("Where: %v", err)
		}
		q, _ := row.Get("quantity")
		if q.(int32) < 20 {
			t.Errorf("row with quantity %d matched Ge(20)", q)
		}
		count++
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

// TestWhereLeIncludesPivotValue verifies Le includes rows whose column
// value equals the pivot, not just those strictly below it.
func TestWhereLeIncludesPivotValue(t *testing.T) {
	_, items := buildItemsTable(t)

	for i := 0; i < 5; i++ {
		r, _ := items.Create()
		r.Set("sku", "S")
		r.Set("quantity", int32(i*10))
	}

	var got []int32
	for row, err := range items.Where(Le("quantity", int32(20))) {
		if err != nil {
			t.Fatalf("Where: %v", err)
		}
		q, _ := row.Get("quantity")
		got = append(got, q.(int32))
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3 (0, 10, 20): %v", len(got), got)
	}
	var sawPivot bool
	for _, q := range got {
		if q > 20 {
			t.Errorf("row with quantity %d matched Le(20)", q)
		}
		if q == 20 {
			sawPivot = true
		}
	}
	if !sawPivot {
		t.Error("Le(20) did not include the row with quantity == 20")
	}
}

// TestFindReturnsErrNotFound verifies Find on an empty result set reports
// ErrNotFound rather than a nil row with no error.
func TestFindReturnsErrNotFound(t *testing.T) {
	_, items := buildItemsTable(t)

	_, err := items.Find(Eq("sku", "missing"))
	if err != ErrNotFound {
		t.Errorf("Find = %v, want ErrNotFound", err)
	}
}

// TestFindIndexPrefersLongerMatchedPrefix verifies findIndex picks the
// index whose key-column prefix the predicate set pins more of: with an
// equality predicate on quantity only, the declared (quantity,id) index
// (strength 1) wins over the default id/_offset/_dirty indices (strength
// 0) — exercising the structural strength rule directly rather than
// through Where's observable ordering.
func TestFindIndexPrefersLongerMatchedPrefix(t *testing.T) {
	_, items := buildItemsTable(t)

	byCol := map[string]Predicate{
		"quantity": Eq("quantity", int32(5)),
	}
	ix, strength := items.findIndex(byCol)
	if ix == nil {
		t.Fatal("findIndex returned nil")
	}
	if strength < 1 {
		t.Errorf("strength = %d, want >= 1", strength)
	}
	if ix.keyCols[0] != "quantity" {
		t.Errorf("selected index keyCols = %v, want to start with quantity", ix.keyCols)
	}
}

// TestFindIndexWithNoPredicatesReturnsNil verifies that when no predicate
// is given at all, findIndex selects no index (nil, strength 0) rather
// than panicking or picking one nondeterministically; Where then falls
// back to scanning the (_offset,id) index.
func TestFindIndexWithNoPredicatesReturnsNil(t *testing.T) {
	_, items := buildItemsTable(t)

	ix, strength := items.findIndex(map[string]Predicate{})
	if ix != nil {
		t.Errorf("findIndex with no predicates = %v, want nil", ix)
	}
	if strength != 0 {
		t.Errorf("strength = %d, want 0", strength)
	}
}
