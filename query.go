// Query engine: declared-index selection against a predicate set, then a
// lazy ordered scan with every predicate re-checked per row so scan
// correctness never depends on how good the chosen index's prefix match
// was (spec.md §4.7). No cost-based optimization is attempted — strength
// is purely structural (how much of an index's key prefix the predicate
// set pins) per spec.md §1's Non-goals.
package tabula

import "iter"

// Where returns a lazy sequence of every row matching all of preds, each
// paired with an error that, once non-nil, ends the sequence. At most
// one predicate per column is consulted for index selection; a column
// named twice keeps only the last predicate for that purpose, though all
// of preds are still evaluated as post-scan filters.
func (t *Table) Where(preds ...Predicate) iter.Seq2[*Row, error] {
	return func(yield func(*Row, error) bool) {
		byCol := make(map[string]Predicate, len(preds))
		for _, p := range preds {
			byCol[p.Column] = p
		}

		ix, matched := t.findIndex(byCol)
		if ix == nil {
			ix = t.offsetIndex
		}
		start, err := t.planScan(ix, byCol, matched)
		if err != nil {
			yield(nil, err)
			return
		}

		for row := range ix.find(start, false) {
			match := true
			for _, p := range preds {
				ok, err := p.match(t, row)
				if err != nil {
					yield(nil, err)
					return
				}
				if !ok {
					match = false
					break
				}
			}
			if match && !yield(row, nil) {
				return
			}
		}
	}
}

// Find returns the first row matching preds, or ErrNotFound.
func (t *Table) Find(preds ...Predicate) (*Row, error) {
	for row, err := range t.Where(preds...) {
		if err != nil {
			return nil, err
		}
		return row, nil
	}
	return nil, ErrNotFound
}

// findIndex walks every declared index's key-column prefix against
// byCol, stopping at the first column with no predicate or with a
// comparison (non-equality) predicate, and returns the index with the
// longest such prefix. Ties are broken by declaration order: strictly
// greater strength is required to replace the current best, so the
// first index to reach a given strength keeps it (SPEC_FULL.md §1).
func (t *Table) findIndex(byCol map[string]Predicate) (*Index, int) {
	var best *Index
	bestStrength := 0
	for _, ix := range t.indices {
		strength := 0
		for _, col := range ix.keyCols {
			p, ok := byCol[col]
			if !ok {
				break
			}
			strength++
			if p.Op != OpEq {
				break
			}
		}
		if strength > bestStrength {
			bestStrength = strength
			best = ix
		}
	}
	return best, bestStrength
}

// planScan builds the starting key for a forward scan of ix given the
// first matched leading predicates. Equality columns (and a trailing
// Gt/Ge) are folded into the bound, since appending a column's own value
// always yields a valid forward lower bound: an entry whose matching
// column equals the pivot has a longer key and so compares greater than
// the bare pivot (keys.go's compareKeys), putting it at or after the
// start position. A trailing Lt/Le is left out of the bound entirely;
// appending it would make the bound an upper bound instead, which a
// forward scan has no use for and would also make entries equal to the
// pivot compare greater than it, skipping them. The scan instead starts
// at the equality prefix and relies on Where's per-row predicate recheck
// to filter the tail (spec.md §4.7).
func (t *Table) planScan(ix *Index, byCol map[string]Predicate, matched int) (Key, error) {
	if matched == 0 {
		return nil, nil
	}
	key := make(Key, 0, matched)
	for i := 0; i < matched; i++ {
		col := ix.keyCols[i]
		p := byCol[col]
		if p.Op == OpLt || p.Op == OpLe {
			break
		}
		part, err := t.keyPartFor(col, p.Value)
		if err != nil {
			return nil, err
		}
		key = append(key, part)
	}
	return key, nil
}
