// Package measurement persists normalized telemetry rows keyed by their
// natural key.
package measurement

// Column is one named scalar in a row. A nil Value is written as SQL NULL.
type Column struct {
	Name  string
	Value any
}

// Row is a flat, immutable mapping of columns for one table. Keys form the
// natural key the upsert conflicts on; Values are overwritten last-write-wins
// when the key already exists.
type Row struct {
	Keys   []Column
	Values []Column
}

// Counts reports the outcome of an upsert batch. Inserted is derived from
// the storage engine's own new-row signal, not from affected-row arithmetic.
type Counts struct {
	Inserted int
	Updated  int
}
