package colpack

// Converter receives the typed values reconstructed by a ColumnReader. The
// reader calls exactly one method per defined value, selected by the
// column's physical type, and no method at all for values that are null or
// absent at the column's nesting depth.
//
// What a converter does with the values is its own business; readers hold
// no state about it beyond the interface.
type Converter interface {
	AddBoolean(value bool)
	AddInt32(value int32)
	AddInt64(value int64)
	AddFloat(value float32)
	AddDouble(value float64)

	// AddByteArray receives variable-length values. The slice is owned by
	// the converter; mutating it does not affect later values.
	AddByteArray(value []byte)

	// AddFixedLenByteArray receives values of the column's declared length.
	// The slice aliases the page buffer and is only valid until the next
	// value is delivered; converters that retain it must copy.
	AddFixedLenByteArray(value []byte)
}

// GroupTracker is implemented by converters of nested columns that want to
// observe group boundaries. Record-assembly layers above the column reader
// call StartGroup and EndGroup as repetition and definition levels open and
// close nesting levels; nothing in this package calls them — the column
// reader delivers leaf values only, and exposes the current levels through
// CurrentRepetitionLevel and CurrentDefinitionLevel for assemblers to drive
// these callbacks.
type GroupTracker interface {
	StartGroup()
	EndGroup()
}
