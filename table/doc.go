// Package table normalises the raw JSONBin records into fixed-schema rectangular tables.
//
// Normalisation never fails: missing fields become null cells, unknown fields are kept
// after the fixed columns and values that should be numeric but are not become nulls.
package table
