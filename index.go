// Index catalog: per-table ordered collections keyed by a tuple of one or
// more column values, always tie-broken by id (spec.md §4.3). Backed by a
// sorted slice searched with sort.Search rather than a skiplist/B-tree —
// no dependency surfaced anywhere in the retrieved corpus provides an
// ordered-map type, so this follows the teacher's own style of a
// hand-rolled binary search (scan.go) rather than reaching for one.
package tabula

import (
	"iter"
	"sort"
)

type indexEntry struct {
	key Key
	row *Row
}

// Index is an ordered map from a composite key to the row that produced
// it. Every index's key ends with id, so keys are always unique and
// traversal order is deterministic.
type Index struct {
	keyCols []string
	entries []indexEntry
}

func newIndex(keyCols ...string) *Index {
	return &Index{keyCols: append([]string(nil), keyCols...)}
}

func (ix *Index) keyOf(t *Table, row *Row) Key {
	k := make(Key, len(ix.keyCols))
	for i, name := range ix.keyCols {
		k[i] = t.sortKeyFor(name, row)
	}
	return k
}

func (ix *Index) search(key Key) int {
	return sort.Search(len(ix.entries), func(i int) bool {
		return compareKeys(ix.entries[i].key, key) >= 0
	})
}

// add inserts row, keyed by t's current column values for it.
func (ix *Index) add(t *Table, row *Row) {
	key := ix.keyOf(t, row)
	i := ix.search(key)
	ix.entries = append(ix.entries, indexEntry{})
	copy(ix.entries[i+1:], ix.entries[i:])
	ix.entries[i] = indexEntry{key: key, row: row}
}

// remove deletes row's entry. row's column values must still reflect the
// key it was added under (callers remove before mutating, per spec.md
// §4.2's index-maintenance policy).
func (ix *Index) remove(t *Table, row *Row) {
	key := ix.keyOf(t, row)
	i := ix.search(key)
	for i < len(ix.entries) && compareKeys(ix.entries[i].key, key) == 0 {
		if ix.entries[i].row == row {
			ix.entries = append(ix.entries[:i], ix.entries[i+1:]...)
			return
		}
		i++
	}
}

// find returns a lazy sequence of rows starting at start (or the minimum,
// resp. maximum when reverse, if start is nil) and proceeding in order.
// Forward: first key >= start. Reverse: first key <= start, descending.
func (ix *Index) find(start Key, reverse bool) iter.Seq[*Row] {
	return func(yield func(*Row) bool) {
		if !reverse {
			i := 0
			if start != nil {
				i = ix.search(start)
			}
			for ; i < len(ix.entries); i++ {
				if !yield(ix.entries[i].row) {
					return
				}
			}
			return
		}
		i := len(ix.entries) - 1
		if start != nil {
			// last entry with key <= start
			j := ix.search(start)
			for j < len(ix.entries) && compareKeys(ix.entries[j].key, start) <= 0 {
				j++
			}
			i = j - 1
		}
		for ; i >= 0; i-- {
			if !yield(ix.entries[i].row) {
				return
			}
		}
	}
}

// coversColumn reports whether col is one of this index's key columns,
// used by Table.indicesOn to find every index that needs updating around
// a column mutation.
func (ix *Index) coversColumn(col string) bool {
	for _, c := range ix.keyCols {
		if c == col {
			return true
		}
	}
	return false
}
