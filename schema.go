// Declarative schema surface: typed column descriptors and the on-disk
// schema descriptor they compile into. This is the explicit table-builder
// spec.md §9 calls for in place of a declarative/metaprogrammed DSL — a
// host builds a []ColumnDef and hands it to Database.Define; there is no
// struct-tag or reflection-driven binding step.
package tabula

import (
	"reflect"

	json "github.com/goccy/go-json"
)

// Kind identifies a concrete column's on-disk representation.
type Kind int

const (
	KindInt Kind = iota + 1
	KindBool
	KindForeign
	KindBytes
	KindString
	KindPickle
	KindBytesBlob
	KindStringBlob
	KindPickleBlob
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindBool:
		return "Bool"
	case KindForeign:
		return "Foreign"
	case KindBytes:
		return "Bytes"
	case KindString:
		return "String"
	case KindPickle:
		return "Pickle"
	case KindBytesBlob:
		return "BytesBlob"
	case KindStringBlob:
		return "StringBlob"
	case KindPickleBlob:
		return "PickleBlob"
	default:
		return "Unknown"
	}
}

// ColumnDef declares one concrete column. Construct with the Int/Bool/...
// helper functions below rather than literal struct values, so that kind
// parameters stay consistent with the kind tag.
type ColumnDef struct {
	Name string
	Kind Kind

	// Size is the inline capacity N for Bytes/String/Pickle columns.
	Size int

	// ForeignTable is the declared target table name for Foreign columns.
	// Late-bound: resolved to a *Table at Database.Connect, once every
	// table is registered.
	ForeignTable string

	// PickleType optionally restricts Pickle/PickleBlob values to a single
	// runtime type; nil accepts anything encodable.
	PickleType reflect.Type

	// PickleDefault is evaluated lazily, on each Get that finds a
	// Pickle/PickleBlob column's stored payload empty, to produce its value.
	PickleDefault func() any
}

// Int declares a signed 32-bit column.
func Int(name string) ColumnDef { return ColumnDef{Name: name, Kind: KindInt} }

// Bool declares a 1-byte boolean column.
func Bool(name string) ColumnDef { return ColumnDef{Name: name, Kind: KindBool} }

// Foreign declares a column holding the id of a row in another table. The
// target may be given by name (supports forward/late declaration) since
// Go has no way to reference a table value before it exists.
func Foreign(name, targetTable string) ColumnDef {
	return ColumnDef{Name: name, Kind: KindForeign, ForeignTable: targetTable}
}

// Bytes declares a column storing up to n raw bytes inline.
func Bytes(name string, n int) ColumnDef { return ColumnDef{Name: name, Kind: KindBytes, Size: n} }

// String declares a column storing up to n UTF-8 bytes inline.
func String(name string, n int) ColumnDef { return ColumnDef{Name: name, Kind: KindString, Size: n} }

// PickleOption configures a Pickle/PickleBlob column.
type PickleOption func(*ColumnDef)

// OfType restricts a Pickle/PickleBlob column to values of exactly this
// runtime type.
func OfType(t reflect.Type) PickleOption {
	return func(c *ColumnDef) { c.PickleType = t }
}

// DefaultValue supplies the value returned when a Pickle/PickleBlob
// column's stored payload is empty. Evaluated lazily on each such Get.
func DefaultValue(f func() any) PickleOption {
	return func(c *ColumnDef) { c.PickleDefault = f }
}

// Pickle declares a column storing a serialized value (up to n bytes)
// inline.
func Pickle(name string, n int, opts ...PickleOption) ColumnDef {
	c := ColumnDef{Name: name, Kind: KindPickle, Size: n}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// BytesBlob declares a column whose payload lives entirely in a sidecar
// file; the record carries no inline footprint for it.
func BytesBlob(name string) ColumnDef { return ColumnDef{Name: name, Kind: KindBytesBlob} }

// StringBlob is the UTF-8 sidecar-backed counterpart of BytesBlob.
func StringBlob(name string) ColumnDef { return ColumnDef{Name: name, Kind: KindStringBlob} }

// PickleBlob declares a sidecar-backed column storing a serialized value.
func PickleBlob(name string, opts ...PickleOption) ColumnDef {
	c := ColumnDef{Name: name, Kind: KindPickleBlob}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// VKind identifies a virtual (derived, unpersisted) column.
type VKind int

const (
	VKindThrough VKind = iota + 1
	VKindBelongs
)

// VirtualDef declares one virtual column.
type VirtualDef struct {
	Name  string
	Kind  VKind
	Chain []string // Through: attribute names to chase in order

	BelongsTable string // Belongs: target table name
	BelongsKey   string // Belongs: the Foreign column on the target naming this row
}

// Through declares a column that chases a dotted chain of attribute names
// starting from the row, lifting over any step that yields a slice.
func Through(name string, chain ...string) VirtualDef {
	return VirtualDef{Name: name, Kind: VKindThrough, Chain: chain}
}

// Belongs declares the reverse of a Foreign column: every row of
// targetTable whose `key` Foreign column points back at this row.
func Belongs(name, targetTable, key string) VirtualDef {
	return VirtualDef{Name: name, Kind: VKindBelongs, BelongsTable: targetTable, BelongsKey: key}
}

// TableDef is the complete declaration handed to Database.Define.
type TableDef struct {
	Name    string
	Columns []ColumnDef
	Virtual []VirtualDef
	// Indices declares additional secondary indices as column-name
	// tuples; "id" is appended automatically and need not be listed.
	Indices [][]string
}

// schemaColumn is the serialized, on-disk shape of one concrete column:
// enough to round-trip a ColumnDef without the runtime PickleDefault
// closure (which cannot be serialized; a migrated-in column starts with
// an empty stored payload, and a Pickle/PickleBlob column then reports
// the default from its live declaration on Get — see migration.go).
type schemaColumn struct {
	Name         string `json:"name"`
	Kind         Kind   `json:"kind"`
	Size         int    `json:"size,omitempty"`
	ForeignTable string `json:"foreign,omitempty"`
	PickleType   string `json:"pickle_type,omitempty"`
}

// schemaDescriptor is the full on-disk schema header payload (spec.md
// §4.5): the declared concrete column list in order, including the
// implicit leading id column.
type schemaDescriptor struct {
	Columns []schemaColumn `json:"columns"`
}

func newSchemaColumn(c Column) schemaColumn {
	sc := schemaColumn{Name: c.Name(), Kind: c.Kind()}
	if b, ok := c.(*boundedColumn); ok {
		sc.Size = b.size
	}
	if f, ok := c.(*foreignColumn); ok {
		sc.ForeignTable = f.targetName
	}
	if p, ok := pickleTyped(c); ok && p != nil {
		sc.PickleType = p.String()
	}
	return sc
}

// encodeSchema serializes a table's concrete columns (in declared order,
// id first) to the stable byte form stored in the file header. Equal
// declarations MUST produce equal bytes: goccy/go-json marshals struct
// fields in declaration order deterministically, and schemaColumn never
// contains a map, so this holds without an explicit sort step.
func encodeSchema(cols []Column) ([]byte, error) {
	desc := schemaDescriptor{Columns: make([]schemaColumn, len(cols))}
	for i, c := range cols {
		desc.Columns[i] = newSchemaColumn(c)
	}
	return json.Marshal(desc)
}

func decodeSchema(data []byte) (schemaDescriptor, error) {
	var desc schemaDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return schemaDescriptor{}, err
	}
	return desc, nil
}
