// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tiles3d_test

import (
	"fmt"

	"github.com/gogama/tiles3d"
)

func ExampleReadNumber() {
	b := []byte{0xfe, 0xff, 0x2c, 0x01} // Two little-endian INT16 values.

	v0, _ := tiles3d.ReadNumber(b, tiles3d.Int16, 0) // Ignore error ONLY to keep example simple.
	v1, _ := tiles3d.ReadNumber(b, tiles3d.Int16, 1)

	fmt.Println(v0, v1)
	// Output: -2 300
}

func ExampleNewSinglePropertyTable() {
	cp := &tiles3d.ClassProperty{Type: tiles3d.String}
	table, err := tiles3d.NewSinglePropertyTable("name", cp, []interface{}{"ab", "cde"}, nil)
	if err != nil {
		panic(err)
	}

	fmt.Println(table)
	fmt.Println(table.BufferViewsData[0], table.BufferViewsData[1])
	// Output:
	// BinaryPropertyTable{Class:generatedClass,Count:2,Properties:[name:STRING],BufferViews:[5 bytes,12 bytes]}
	// [97 98 99 100 101] [0 0 0 0 2 0 0 0 5 0 0 0]
}

func ExampleTableModel_Entity() {
	schema, err := tiles3d.ParseSchema([]byte(`{
		"classes": {
			"tree": {
				"properties": {
					"height": {"type": "SCALAR", "componentType": "UINT16", "scale": 0.5, "offset": 2},
					"species": {"type": "STRING", "semantic": "NAME"}
				}
			}
		}
	}`))
	if err != nil {
		panic(err)
	}

	b, _ := tiles3d.NewTableBuilder(schema, "tree", 2)
	_ = b.AddProperty("height", []interface{}{100, 200})
	_ = b.AddProperty("species", []interface{}{"oak", "elm"})
	table, err := b.Build()
	if err != nil {
		panic(err)
	}

	tm, err := tiles3d.NewTableModel(table)
	if err != nil {
		panic(err)
	}
	for row := 0; row < tm.Count(); row++ {
		e, _ := tm.Entity(row)
		name, _, _ := e.ValueBySemantic("NAME")
		height, _ := e.Value("height")
		fmt.Println(name, height)
	}
	// Output:
	// oak 52
	// elm 102
}
