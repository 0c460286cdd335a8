// Package table provides the heterogeneous Table type and its numeric encoding.
//
// A Table is an ordered set of named columns whose cells are numbers, categories
// or missing. Encode converts it into a row-major float64 buffer (NaN marks a
// missing cell) plus the schema needed by Decode to rebuild a Table with the
// same labels and row order.
//
// # Encoding Rules
//
//   - A column with only numeric observations is encoded as-is.
//   - A column with any categorical observation is encoded with codes 0..n-1
//     assigned to its distinct categories in lexicographic order.
//   - NaN and ±Inf numbers are unresolvable and encoded as missing.
//
// # CSV
//
//	t, err := table.ReadCSV(r)
//	err = table.WriteCSV(w, t)
//
// Compressed CSV (.gz, .zst, .lz4) is handled by DecodeCSV and EncodeCSV.
package table
