// Package layout copies strided hyperslabs between row-major element
// buffers and a compact selection buffer.
//
// A dataset of dims [D0, D1, ... Dn] stores element (i0, i1, ... in) at
// byte offset ((i0*D1 + i1)*D2 + ...)*elementSize. A [Slab] selects Count[d]
// elements along each dimension d, starting at Start[d] and stepping by
// Stride[d]. [Gather] reads the selected elements into a dense buffer in
// row-major order; [Scatter] writes a dense buffer back.
//
// Runs along the innermost dimension with stride 1 are copied with a single
// read or write.
package layout
