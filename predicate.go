// Predicates: comparison-operator predicate builders, a direct port of
// original_source/seaslug.py's ColEq/ColLt/ColLe/ColGt/ColGe classes,
// expressed as Go value types returned by named functions instead of
// operator-overload magic (spec.md §9's redesign guidance).
package tabula

// Op identifies a predicate's comparison operator.
type Op int

const (
	OpEq Op = iota
	OpLt
	OpLe
	OpGt
	OpGe
)

// Predicate compares one column against a fixed value. Build with
// Eq/Lt/Le/Gt/Ge rather than a literal, so Op stays consistent with the
// constructor's name.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

// Eq matches rows whose column equals value.
func Eq(column string, value any) Predicate { return Predicate{Column: column, Op: OpEq, Value: value} }

// Lt matches rows whose column sorts strictly before value.
func Lt(column string, value any) Predicate { return Predicate{Column: column, Op: OpLt, Value: value} }

// Le matches rows whose column sorts at or before value.
func Le(column string, value any) Predicate { return Predicate{Column: column, Op: OpLe, Value: value} }

// Gt matches rows whose column sorts strictly after value.
func Gt(column string, value any) Predicate { return Predicate{Column: column, Op: OpGt, Value: value} }

// Ge matches rows whose column sorts at or after value.
func Ge(column string, value any) Predicate { return Predicate{Column: column, Op: OpGe, Value: value} }

// match reports whether row satisfies p, using the same key ordering an
// index over p.Column would use (keys.go), so index-accelerated scans
// and the post-scan filter agree exactly.
func (p Predicate) match(t *Table, row *Row) (bool, error) {
	actual := t.sortKeyFor(p.Column, row)
	want, err := t.keyPartFor(p.Column, p.Value)
	if err != nil {
		return false, err
	}
	c := actual.compare(want)
	switch p.Op {
	case OpEq:
		return c == 0, nil
	case OpLt:
		return c < 0, nil
	case OpLe:
		return c <= 0, nil
	case OpGt:
		return c > 0, nil
	case OpGe:
		return c >= 0, nil
	default:
		return false, nil
	}
}

// keyPartFor converts a raw predicate value into the keyPart shape
// column's own SortKey would produce, resolving "id"/"_offset"/"_dirty"
// the same way sortKeyFor does.
func (t *Table) keyPartFor(column string, value any) (keyPart, error) {
	switch column {
	case "id":
		return uintPart(toRowID(value)), nil
	case "_offset":
		off, ok := value.(int)
		if !ok {
			return keyPart{}, &SchemaError{Reason: "_offset predicate requires an int value"}
		}
		return intPart(int32(off)), nil
	case "_dirty":
		v, ok := value.(bool)
		if !ok {
			return keyPart{}, &SchemaError{Reason: "_dirty predicate requires a bool value"}
		}
		return boolPart(v), nil
	}

	c, ok := t.columnByName[column]
	if !ok {
		return keyPart{}, &SchemaError{Table: t.name, Reason: "unknown column " + column, Cause: ErrUnknownColumn}
	}
	switch c.Kind() {
	case KindInt:
		v, err := toInt32(column, value)
		if err != nil {
			return keyPart{}, err
		}
		return intPart(v), nil
	case KindBool:
		v, ok := value.(bool)
		if !ok {
			return keyPart{}, &SchemaError{Reason: "column " + column + " requires a bool value"}
		}
		return boolPart(v), nil
	case KindForeign:
		return uintPart(toRowID(value)), nil
	case KindString, KindBytes, KindPickle, KindStringBlob, KindBytesBlob, KindPickleBlob:
		switch v := value.(type) {
		case string:
			return stringPart(v), nil
		case []byte:
			return stringPart(string(v)), nil
		default:
			return keyPart{}, &SchemaError{Reason: "column " + column + " requires a string or []byte value to compare"}
		}
	default:
		return keyPart{}, &SchemaError{Reason: "column " + column + " has no comparable ordering"}
	}
}

// toRowID extracts a row id from a predicate value given as a *Row, a
// bare id, or nil (absent).
func toRowID(value any) uint32 {
	switch v := value.(type) {
	case uint32:
		return v
	case int:
		return uint32(v)
	case int32:
		return uint32(v)
	case *Row:
		if v == nil {
			return 0
		}
		return v.id
	default:
		return 0
	}
}
