package colpack

import (
	"fmt"

	"github.com/colpack/colpack/encoding"
	"github.com/colpack/colpack/format"
)

// binding couples the decode and deliver halves of one physical type: read
// pulls the next value out of a page's value stream, deliver pushes the
// value it holds to the converter method matching the type.
type binding interface {
	read(values valuesReader, typeLength int) error
	deliver(converter Converter)
}

func bindingFor(descriptor *ColumnDescriptor) (binding, error) {
	switch descriptor.Type {
	case format.Boolean:
		return new(booleanBinding), nil
	case format.Int32:
		return new(int32Binding), nil
	case format.Int64:
		return new(int64Binding), nil
	case format.Float:
		return new(floatBinding), nil
	case format.Double:
		return new(doubleBinding), nil
	case format.ByteArray:
		return new(byteArrayBinding), nil
	case format.FixedLenByteArray:
		if descriptor.TypeLength <= 0 {
			return nil, fmt.Errorf("colpack: column %q: %s requires a positive type length, got %d",
				descriptor, descriptor.Type, descriptor.TypeLength)
		}
		return new(fixedLenByteArrayBinding), nil
	default:
		return nil, fmt.Errorf("colpack: column %q: type %s: %w",
			descriptor, descriptor.Type, encoding.ErrNotSupported)
	}
}

type booleanBinding struct{ value bool }

func (b *booleanBinding) read(values valuesReader, _ int) (err error) {
	b.value, err = values.readBoolean()
	return err
}

func (b *booleanBinding) deliver(c Converter) { c.AddBoolean(b.value) }

type int32Binding struct{ value int32 }

func (b *int32Binding) read(values valuesReader, _ int) (err error) {
	b.value, err = values.readInt32()
	return err
}

func (b *int32Binding) deliver(c Converter) { c.AddInt32(b.value) }

type int64Binding struct{ value int64 }

func (b *int64Binding) read(values valuesReader, _ int) (err error) {
	b.value, err = values.readInt64()
	return err
}

func (b *int64Binding) deliver(c Converter) { c.AddInt64(b.value) }

type floatBinding struct{ value float32 }

func (b *floatBinding) read(values valuesReader, _ int) (err error) {
	b.value, err = values.readFloat()
	return err
}

func (b *floatBinding) deliver(c Converter) { c.AddFloat(b.value) }

type doubleBinding struct{ value float64 }

func (b *doubleBinding) read(values valuesReader, _ int) (err error) {
	b.value, err = values.readDouble()
	return err
}

func (b *doubleBinding) deliver(c Converter) { c.AddDouble(b.value) }

type byteArrayBinding struct{ value []byte }

func (b *byteArrayBinding) read(values valuesReader, _ int) (err error) {
	b.value, err = values.readByteArray()
	return err
}

func (b *byteArrayBinding) deliver(c Converter) { c.AddByteArray(b.value) }

type fixedLenByteArrayBinding struct{ value []byte }

func (b *fixedLenByteArrayBinding) read(values valuesReader, typeLength int) (err error) {
	b.value, err = values.readFixedLenByteArray(typeLength)
	return err
}

func (b *fixedLenByteArrayBinding) deliver(c Converter) { c.AddFixedLenByteArray(b.value) }
