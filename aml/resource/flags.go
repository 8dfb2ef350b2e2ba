package resource

import (
	"fmt"

	"github.com/joshuapare/amlkit/internal/format"
	"github.com/joshuapare/amlkit/pkg/types"
)

// IORangeFlags packs the type specific flags byte of an I/O address space
// descriptor. isaRanges selects the range class (1 non-ISA only, 2 ISA
// only, 3 entire range) and must not exceed 3.
func IORangeFlags(isaRanges uint8, denseTranslation, typeStatic bool) (uint8, error) {
	if isaRanges > format.IOMaxIsaRanges {
		return 0, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("io range flags: isa range class %d exceeds %d", isaRanges, format.IOMaxIsaRanges),
		}
	}
	flags := isaRanges & format.IOFlagIsaRangeMask
	if !typeStatic {
		flags |= format.IOFlagNonStatic
	}
	if !denseTranslation {
		flags |= format.IOFlagSparse
	}
	return flags, nil
}

// MemoryRangeFlags packs the type specific flags byte of a memory address
// space descriptor. cacheable selects the caching class (0 non-cacheable,
// 1 cacheable, 2 write combining, 3 prefetchable) and rangeType the range
// class (0 memory, 1 reserved, 2 ACPI, 3 NVS); both must not exceed 3.
func MemoryRangeFlags(cacheable uint8, readWrite bool, rangeType uint8, typeStatic bool) (uint8, error) {
	if cacheable > format.MemMaxCacheable {
		return 0, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("memory range flags: cache class %d exceeds %d", cacheable, format.MemMaxCacheable),
		}
	}
	if rangeType > format.MemMaxRangeType {
		return 0, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("memory range flags: range class %d exceeds %d", rangeType, format.MemMaxRangeType),
		}
	}
	var flags uint8
	if readWrite {
		flags |= format.MemFlagReadWrite
	}
	flags |= cacheable << format.MemFlagCacheShift
	flags |= rangeType << format.MemFlagRangeTypeShift
	if !typeStatic {
		flags |= format.MemFlagNonStatic
	}
	return flags, nil
}

// generalFlags packs the general flags byte shared by all address space
// descriptor forms.
func generalFlags(posDecode, minFixed, maxFixed bool) uint8 {
	var flags uint8
	if !posDecode {
		flags |= format.SpaceFlagSubDecode
	}
	if minFixed {
		flags |= format.SpaceFlagMinFixed
	}
	if maxFixed {
		flags |= format.SpaceFlagMaxFixed
	}
	return flags
}
