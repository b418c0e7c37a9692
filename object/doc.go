// Package object is the typed data model over raw dataset bytes.
//
// A [Dataset] couples a [datatype.Datatype], a rectangular [Selection] over
// the dataset extents, and a [Backend] that delivers the selected bytes. The
// dataset decodes what the backend returns into typed Go slices, or into
// struct-of-arrays columns for compound types, and caches the result until
// [Dataset.ClearData] or a selection change.
//
// # Reading
//
//	ds, err := object.NewDataset("grid", dt, []uint64{4, 5}, object.WithBackend(store))
//	ds.StartDims()[0] = 1
//	ds.SelectedDims()[0] = 2
//	values, err := ds.Data()
//
// The slices returned by [Selection.StartDims], [Selection.SelectedDims] and
// [Selection.Stride] are live: callers mutate them in place and then read.
// An out-of-range selection is rejected with [ErrInvalidSelection] when data
// is read or written.
//
// # Unsigned data
//
// Unsigned integers are delivered in signed containers of the stored width,
// so an 8-bit 0xFF reads as int8(-1). [Dataset.ConvertFromUnsigned] widens
// them to the next signed type and [Dataset.ConvertToUnsigned] narrows them
// back. 64-bit unsigned values have no wider type and are left as int64.
//
// # Backends
//
// Backends are resolved explicitly: pass one with [WithBackend], or pass a
// [Registry] populated by the application together with a format name.
package object
