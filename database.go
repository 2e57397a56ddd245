// Database is the top-level handle: a directory holding one .tbl file
// per table plus each blob column's sidecar directory. Tables are
// declared with Define, then Connect resolves every Foreign/Belongs
// reference and loads every table's file — in that order, so every
// Foreign column's target *Table is bound before any row is loaded.
package tabula

import "os"

// Database is an open collection of tables rooted at one directory.
type Database struct {
	dir       string
	config    Config
	tables    map[string]*Table
	order     []string
	connected bool
}

// Open prepares a Database rooted at dir, creating it if necessary. The
// returned Database is not yet usable for reads or writes — declare
// every table with Define, then call Connect.
func Open(dir string, config Config) (*Database, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &IoError{Path: dir, Cause: err}
	}
	return &Database{
		dir:    dir,
		config: config.withDefaults(),
		tables: map[string]*Table{},
	}, nil
}

// Define compiles def into a *Table and registers it with db. Must be
// called before Connect; a Foreign column naming a table not yet (or
// never) defined is only caught at Connect, once every table is known.
func (db *Database) Define(def TableDef) (*Table, error) {
	if db.connected {
		return nil, &SchemaError{Table: def.Name, Reason: "cannot define a table after Connect"}
	}
	if _, dup := db.tables[def.Name]; dup {
		return nil, &SchemaError{Table: def.Name, Reason: "table already defined"}
	}
	t, err := buildTable(db, def)
	if err != nil {
		return nil, err
	}
	db.tables[def.Name] = t
	db.order = append(db.order, def.Name)
	return t, nil
}

// Connect resolves every Foreign/Belongs reference across every defined
// table, then loads each table's file (migrating any whose stored schema
// has drifted). Each table reindexes itself once its rows are loaded
// (store.go's loadRecords, migration.go's migrateTable); a Foreign
// column's SortKey only ever reads the referenced row's raw stored id
// (columns_foreign.go), never the resolved target, so there's no need to
// reindex again afterward here.
func (db *Database) Connect() error {
	if db.connected {
		return nil
	}
	lookup := func(name string) (*Table, bool) {
		t, ok := db.tables[name]
		return t, ok
	}
	for _, name := range db.order {
		if err := db.tables[name].resolveRefs(lookup); err != nil {
			return err
		}
	}
	for _, name := range db.order {
		if err := db.tables[name].load(); err != nil {
			return err
		}
	}
	db.connected = true
	return nil
}

// Table returns the named table, if it was defined.
func (db *Database) Table(name string) (*Table, bool) {
	t, ok := db.tables[name]
	return t, ok
}

// Save flushes every table: dirty rows only, unless a migration or row
// destruction forced a full rewrite.
func (db *Database) Save() error {
	for _, name := range db.order {
		if err := db.tables[name].flush(); err != nil {
			return err
		}
	}
	return nil
}

// Close saves every table. There is no background writer and nothing
// else to release, matching spec.md §1's single-process, no-daemon
// model.
func (db *Database) Close() error {
	return db.Save()
}
