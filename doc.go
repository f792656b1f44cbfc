// Package colpack implements the column-value layer of a columnar file
// format: typed values are encoded into page byte streams on write, and a
// column reader drives page-by-page reconstruction of the value stream on
// read, pushing typed values to a converter.
//
// The package also carries the compatibility machinery for files written by
// producers whose DELTA_BYTE_ARRAY encoder is known to have leaked state
// across page boundaries; see the compat sub-package and NewColumnReader.
//
// Container-format concerns (footers, block metadata, file I/O, and
// decompression of pages in transit) live outside this package: pages reach
// the column reader whole and uncompressed through the PageReader interface.
package colpack
