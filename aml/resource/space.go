package resource

import (
	"fmt"
	"math"

	"github.com/joshuapare/amlkit/aml"
	"github.com/joshuapare/amlkit/internal/format"
	"github.com/joshuapare/amlkit/pkg/types"
)

// AddressSpaceFields holds the scalar fields shared by every address space
// descriptor form. The combination rules of checkAddressSpaceFields apply
// regardless of the record width.
type AddressSpaceFields struct {
	// PosDecode selects positive decode; clear means subtractive decode.
	PosDecode bool
	// MinFixed and MaxFixed mark the range endpoints as non-negotiable.
	MinFixed bool
	MaxFixed bool

	Granularity uint64
	Min         uint64
	Max         uint64
	Translation uint64
	Length      uint64
}

// checkAddressSpaceFields enforces the legal field combinations of an
// address space descriptor. Violations fail before any allocation.
func checkAddressSpaceFields(f AddressSpaceFields) error {
	if f.Min > f.Max {
		return &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("address space: minimum %#x above maximum %#x", f.Min, f.Max),
		}
	}
	if f.Length > f.Max-f.Min+1 {
		return &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("address space: length %#x exceeds window %#x", f.Length, f.Max-f.Min+1),
		}
	}
	// Granularity must be zero or a power of two minus one.
	if f.Granularity != 0 && (f.Granularity+1)&f.Granularity != 0 {
		return &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("address space: granularity %#x is not an alignment mask", f.Granularity),
		}
	}

	if f.Length != 0 {
		if f.MinFixed != f.MaxFixed {
			return &types.Error{
				Kind: types.ErrKindInvalidArgument,
				Msg:  "address space: nonzero length requires both or neither endpoint fixed",
			}
		}
		if f.MinFixed && f.MaxFixed && f.Granularity != 0 && f.Max-f.Min+1 != f.Length {
			return &types.Error{
				Kind: types.ErrKindInvalidArgument,
				Msg:  fmt.Sprintf("address space: fixed window %#x does not match length %#x", f.Max-f.Min+1, f.Length),
			}
		}
		return nil
	}

	if f.MinFixed && f.MaxFixed {
		return &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  "address space: zero length forbids fixing both endpoints",
		}
	}
	if f.MinFixed && f.Min&f.Granularity != 0 {
		return &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("address space: fixed minimum %#x not aligned to granularity %#x", f.Min, f.Granularity),
		}
	}
	if f.MaxFixed && (f.Max+1)&f.Granularity != 0 {
		return &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("address space: fixed maximum %#x not aligned to granularity %#x", f.Max, f.Granularity),
		}
	}
	return nil
}

// checkFieldWidth rejects scalar fields that do not fit the record form.
func checkFieldWidth(f AddressSpaceFields, limit uint64) error {
	for _, v := range [...]uint64{f.Granularity, f.Min, f.Max, f.Translation, f.Length} {
		if v > limit {
			return &types.Error{
				Kind: types.ErrKindInvalidArgument,
				Msg:  fmt.Sprintf("address space: field %#x exceeds record width limit %#x", v, limit),
			}
		}
	}
	return nil
}

// encodeSpace lays the record out: large header, resource type, flag pair,
// then the five address fields back to back at the form's width.
func encodeSpace(name byte, payload int, width int, resType, typeFlags uint8, f AddressSpaceFields) []byte {
	rec := make([]byte, format.LargeHeaderSize+payload)
	rec[0] = name
	format.PutU16(rec, 1, uint16(payload))
	rec[format.SpaceResTypeOffset] = resType
	rec[format.SpaceGenFlagOffset] = generalFlags(f.PosDecode, f.MinFixed, f.MaxFixed)
	rec[format.SpaceTypeFlagOffset] = typeFlags

	off := format.SpaceAddrBlockOffset
	for _, v := range [...]uint64{f.Granularity, f.Min, f.Max, f.Translation, f.Length} {
		switch width {
		case 2:
			format.PutU16(rec, off, uint16(v))
		case 4:
			format.PutU32(rec, off, uint32(v))
		default:
			format.PutU64(rec, off, v)
		}
		off += width
	}
	return rec
}

func newSpace(name byte, payload, width int, limit uint64, resType, typeFlags uint8, f AddressSpaceFields, nameOp *aml.ObjectNode) (*aml.DataNode, error) {
	if err := checkFieldWidth(f, limit); err != nil {
		return nil, err
	}
	if err := checkAddressSpaceFields(f); err != nil {
		return nil, err
	}
	record, err := aml.NewResourceData(encodeSpace(name, payload, width, resType, typeFlags, f))
	if err != nil {
		return nil, err
	}
	return link(record, nameOp)
}

// WordSpace builds a 16-bit address space descriptor of an arbitrary
// resource type with caller-supplied type specific flags.
func WordSpace(resType, typeFlags uint8, f AddressSpaceFields, nameOp *aml.ObjectNode) (*aml.DataNode, error) {
	return newSpace(format.WordSpaceDescName, format.WordSpaceDescLength, 2, math.MaxUint16, resType, typeFlags, f, nameOp)
}

// DWordSpace builds a 32-bit address space descriptor of an arbitrary
// resource type with caller-supplied type specific flags.
func DWordSpace(resType, typeFlags uint8, f AddressSpaceFields, nameOp *aml.ObjectNode) (*aml.DataNode, error) {
	return newSpace(format.DWordSpaceDescName, format.DWordSpaceDescLength, 4, math.MaxUint32, resType, typeFlags, f, nameOp)
}

// QWordSpace builds a 64-bit address space descriptor of an arbitrary
// resource type with caller-supplied type specific flags.
func QWordSpace(resType, typeFlags uint8, f AddressSpaceFields, nameOp *aml.ObjectNode) (*aml.DataNode, error) {
	return newSpace(format.QWordSpaceDescName, format.QWordSpaceDescLength, 8, math.MaxUint64, resType, typeFlags, f, nameOp)
}

// WordBusNumber builds a 16-bit bus number range descriptor. Bus ranges
// carry no type specific flags.
func WordBusNumber(f AddressSpaceFields, nameOp *aml.ObjectNode) (*aml.DataNode, error) {
	return WordSpace(format.SpaceTypeBus, 0, f, nameOp)
}

// DWordIO builds a 32-bit I/O range descriptor.
func DWordIO(f AddressSpaceFields, isaRanges uint8, denseTranslation, typeStatic bool, nameOp *aml.ObjectNode) (*aml.DataNode, error) {
	typeFlags, err := IORangeFlags(isaRanges, denseTranslation, typeStatic)
	if err != nil {
		return nil, err
	}
	return DWordSpace(format.SpaceTypeIO, typeFlags, f, nameOp)
}

// DWordMemory builds a 32-bit memory range descriptor.
func DWordMemory(f AddressSpaceFields, cacheable uint8, readWrite bool, rangeType uint8, typeStatic bool, nameOp *aml.ObjectNode) (*aml.DataNode, error) {
	typeFlags, err := MemoryRangeFlags(cacheable, readWrite, rangeType, typeStatic)
	if err != nil {
		return nil, err
	}
	return DWordSpace(format.SpaceTypeMemory, typeFlags, f, nameOp)
}

// QWordMemory builds a 64-bit memory range descriptor.
func QWordMemory(f AddressSpaceFields, cacheable uint8, readWrite bool, rangeType uint8, typeStatic bool, nameOp *aml.ObjectNode) (*aml.DataNode, error) {
	typeFlags, err := MemoryRangeFlags(cacheable, readWrite, rangeType, typeStatic)
	if err != nil {
		return nil, err
	}
	return QWordSpace(format.SpaceTypeMemory, typeFlags, f, nameOp)
}
