package resource

import (
	"fmt"

	"github.com/joshuapare/amlkit/aml"
	"github.com/joshuapare/amlkit/internal/format"
	"github.com/joshuapare/amlkit/pkg/types"
)

// Register builds a generic register descriptor from a generic address
// structure. The access size enumerant runs from 0 (undefined) to 4
// (64-bit access).
func Register(reg types.GenericAddress, nameOp *aml.ObjectNode) (*aml.DataNode, error) {
	if reg.AccessSize > format.RegisterMaxAccessSize {
		return nil, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("register: access size %d exceeds %d", reg.AccessSize, format.RegisterMaxAccessSize),
		}
	}

	rec := make([]byte, format.RegisterRecordSize)
	rec[0] = format.RegisterDescName
	format.PutU16(rec, 1, format.RegisterDescLength)
	rec[format.RegisterSpaceIDOffset] = reg.SpaceID
	rec[format.RegisterBitWidthOffset] = reg.BitWidth
	rec[format.RegisterBitOffsetOffset] = reg.BitOffset
	rec[format.RegisterAccessSizeOffset] = reg.AccessSize
	format.PutU64(rec, format.RegisterAddressOffset, reg.Address)

	record, err := aml.NewResourceData(rec)
	if err != nil {
		return nil, err
	}
	return link(record, nameOp)
}
