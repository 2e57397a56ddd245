// Virtual columns: derived values computed on demand, never stored in a
// record and never indexable (spec.md §3). Through chases a dotted chain
// of attribute names starting from the row, lifting over any step whose
// intermediate result is a slice — e.g. Through("authorNames", "author",
// "name") on a row whose "author" is itself a *Row resolves "name" on
// that row; Through("tagNames", "tags", "name") where "tags" yields
// []*Row lifts "name" across every element, producing []any. Belongs is
// the reverse of a Foreign column: every row of another table whose
// named Foreign column points back at this row.
package tabula

// VirtualColumn is implemented by every derived (unpersisted) column.
type VirtualColumn interface {
	Name() string
	Get(row *Row) (any, error)
}

type throughColumn struct {
	name  string
	chain []string
}

func newThroughColumn(def VirtualDef) *throughColumn {
	return &throughColumn{name: def.Name, chain: append([]string(nil), def.Chain...)}
}

func (c *throughColumn) Name() string { return c.name }

func (c *throughColumn) Get(row *Row) (any, error) {
	return chase(row, c.chain)
}

// chase walks path starting from subject (a *Row, or a value produced by
// a previous step). A nil *Row ends the chase with a nil result. A []*Row
// or []any intermediate lifts the remaining path over every element.
func chase(subject any, path []string) (any, error) {
	if len(path) == 0 {
		return subject, nil
	}
	switch v := subject.(type) {
	case nil:
		return nil, nil
	case *Row:
		if v == nil {
			return nil, nil
		}
		next, err := v.Get(path[0])
		if err != nil {
			return nil, err
		}
		return chase(next, path[1:])
	case []*Row:
		out := make([]any, 0, len(v))
		for _, r := range v {
			val, err := chase(any(r), path)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(v))
		for _, elem := range v {
			val, err := chase(elem, path)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	default:
		// Scalar leaf reached with path remaining: nothing further to
		// chase through, so the chain simply ends here.
		return subject, nil
	}
}

type belongsColumn struct {
	name       string
	targetName string
	key        string
	target     *Table
}

func newBelongsColumn(def VirtualDef) *belongsColumn {
	return &belongsColumn{name: def.Name, targetName: def.BelongsTable, key: def.BelongsKey}
}

func (c *belongsColumn) Name() string { return c.name }

func (c *belongsColumn) resolve(lookup func(name string) (*Table, bool)) error {
	t, ok := lookup(c.targetName)
	if !ok {
		return &SchemaError{
			Reason: "virtual column " + c.name + " references unregistered table " + c.targetName,
			Cause:  ErrUnknownForeignTable,
		}
	}
	c.target = t
	return nil
}

// Get returns every row of the target table whose c.key Foreign column
// points back at row, found by a full scan of the target's live rows
// (Table.rowsWhere); no declared index is consulted.
func (c *belongsColumn) Get(row *Row) (any, error) {
	rows, err := c.target.rowsWhere(c.key, uintPart(row.id))
	if err != nil {
		return nil, err
	}
	return rows, nil
}
