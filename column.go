package colpack

import (
	"strings"

	"github.com/colpack/colpack/format"
)

// ColumnDescriptor describes one leaf column of a schema: its path from the
// root, its physical type, and the maximum repetition and definition levels
// of values stored in it. Descriptors are constructed once at file-write
// time and never mutated.
type ColumnDescriptor struct {
	// Path is the dotted path of the column, one element per nesting level.
	Path []string

	// Type is the physical type of the column's values.
	Type format.Type

	// TypeLength is the value length for FixedLenByteArray columns, zero
	// otherwise.
	TypeLength int

	// MaxRepetitionLevel is the highest repetition level of any value in
	// the column; zero for non-repeated columns, in which case pages carry
	// no repetition level stream.
	MaxRepetitionLevel int

	// MaxDefinitionLevel is the highest definition level of any value in
	// the column; zero for required columns, in which case pages carry no
	// definition level stream and every value is defined.
	MaxDefinitionLevel int
}

func (d *ColumnDescriptor) String() string { return strings.Join(d.Path, ".") }
