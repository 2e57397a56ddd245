package tabula_test

import (
	"fmt"
	"log"
	"os"

	"github.com/jpl-au/tabula"
)

func Example() {
	dir, _ := os.MkdirTemp("", "tabula-example")
	defer os.RemoveAll(dir)

	db, err := tabula.Open(dir, tabula.Config{})
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	users, err := db.Define(tabula.TableDef{
		Name: "users",
		Columns: []tabula.ColumnDef{
			tabula.String("name", 32),
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := db.Connect(); err != nil {
		log.Fatal(err)
	}

	row, _ := users.Create()
	row.Set("name", "ada")

	name, _ := row.Get("name")
	fmt.Println(name)
	// Output: ada
}

func ExampleTable_Create() {
	dir, _ := os.MkdirTemp("", "tabula-example")
	defer os.RemoveAll(dir)

	db, _ := tabula.Open(dir, tabula.Config{})
	defer db.Close()

	posts, _ := db.Define(tabula.TableDef{
		Name:    "posts",
		Columns: []tabula.ColumnDef{tabula.String("title", 64)},
	})
	db.Connect()

	row, err := posts.Create()
	if err != nil {
		log.Fatal(err)
	}
	row.Set("title", "hello, world")

	fmt.Println(row.ID(), row.New())
	// Output: 1 true
}

func ExampleTable_Where() {
	dir, _ := os.MkdirTemp("", "tabula-example")
	defer os.RemoveAll(dir)

	db, _ := tabula.Open(dir, tabula.Config{})
	defer db.Close()

	items, _ := db.Define(tabula.TableDef{
		Name: "items",
		Columns: []tabula.ColumnDef{
			tabula.String("sku", 16),
			tabula.Int("quantity"),
		},
		Indices: [][]string{{"quantity"}},
	})
	db.Connect()

	a, _ := items.Create()
	a.Set("sku", "A1")
	a.Set("quantity", int32(3))

	b, _ := items.Create()
	b.Set("sku", "B2")
	b.Set("quantity", int32(10))

	for row, err := range items.Where(tabula.Ge("quantity", int32(5))) {
		if err != nil {
			log.Fatal(err)
		}
		sku, _ := row.Get("sku")
		fmt.Println(sku)
	}
	// Output: B2
}

func ExampleTable_Find() {
	dir, _ := os.MkdirTemp("", "tabula-example")
	defer os.RemoveAll(dir)

	db, _ := tabula.Open(dir, tabula.Config{})
	defer db.Close()

	users, _ := db.Define(tabula.TableDef{
		Name:    "users",
		Columns: []tabula.ColumnDef{tabula.String("email", 64)},
		Indices: [][]string{{"email"}},
	})
	db.Connect()

	row, _ := users.Create()
	row.Set("email", "ada@example.com")

	found, err := users.Find(tabula.Eq("email", "ada@example.com"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(found.ID())
	// Output: 1
}

func ExampleForeign() {
	dir, _ := os.MkdirTemp("", "tabula-example")
	defer os.RemoveAll(dir)

	db, _ := tabula.Open(dir, tabula.Config{})
	defer db.Close()

	authors, _ := db.Define(tabula.TableDef{
		Name:    "authors",
		Columns: []tabula.ColumnDef{tabula.String("name", 32)},
	})
	books, _ := db.Define(tabula.TableDef{
		Name: "books",
		Columns: []tabula.ColumnDef{
			tabula.String("title", 64),
			tabula.Foreign("author", "authors"),
		},
	})
	db.Connect()

	author, _ := authors.Create()
	author.Set("name", "octavia")

	book, _ := books.Create()
	book.Set("title", "kindred")
	book.Set("author", author)

	got, _ := book.Get("author")
	row := got.(*tabula.Row)
	name, _ := row.Get("name")
	fmt.Println(name)
	// Output: octavia
}

func ExampleRow_Destroy() {
	dir, _ := os.MkdirTemp("", "tabula-example")
	defer os.RemoveAll(dir)

	db, _ := tabula.Open(dir, tabula.Config{})
	defer db.Close()

	items, _ := db.Define(tabula.TableDef{
		Name:    "items",
		Columns: []tabula.ColumnDef{tabula.String("sku", 16)},
	})
	db.Connect()

	row, _ := items.Create()
	row.Set("sku", "A1")

	if err := row.Destroy(); err != nil {
		log.Fatal(err)
	}
	fmt.Println(items.Len())
	// Output: 0
}

func ExampleConfig() {
	dir, _ := os.MkdirTemp("", "tabula-example")
	defer os.RemoveAll(dir)

	cfg := tabula.Config{
		ChecksumAlgorithm: tabula.ChecksumXXHash3,
		CompressBlobs:     true,
		ReadBufferSize:    128 * 1024,
	}

	db, err := tabula.Open(dir, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
}
