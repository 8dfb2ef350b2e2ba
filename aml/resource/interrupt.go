package resource

import (
	"fmt"

	"github.com/joshuapare/amlkit/aml"
	"github.com/joshuapare/amlkit/internal/format"
	"github.com/joshuapare/amlkit/pkg/types"
)

// InterruptFields parameterizes an extended interrupt descriptor.
type InterruptFields struct {
	ResourceConsumer bool
	EdgeTriggered    bool
	ActiveLow        bool
	Shared           bool

	// Interrupts lists the interrupt numbers, copied verbatim. At least
	// one is required; at most 255 fit the one-byte count field.
	Interrupts []uint32
}

// Interrupt builds an extended interrupt descriptor.
func Interrupt(f InterruptFields, nameOp *aml.ObjectNode) (*aml.DataNode, error) {
	if len(f.Interrupts) == 0 {
		return nil, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  "interrupt: empty interrupt list",
		}
	}
	if len(f.Interrupts) > format.IntMaxCount {
		return nil, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("interrupt: %d interrupts exceed limit %d", len(f.Interrupts), format.IntMaxCount),
		}
	}

	var flags uint8
	if f.ResourceConsumer {
		flags |= format.IntFlagConsumer
	}
	if f.EdgeTriggered {
		flags |= format.IntFlagEdge
	}
	if f.ActiveLow {
		flags |= format.IntFlagActiveLow
	}
	if f.Shared {
		flags |= format.IntFlagShared
	}

	payload := format.IntListOffset - format.LargeHeaderSize + 4*len(f.Interrupts)
	rec := make([]byte, format.LargeHeaderSize+payload)
	rec[0] = format.ExtInterruptDescName
	format.PutU16(rec, 1, uint16(payload))
	rec[format.IntFlagsOffset] = flags
	rec[format.IntCountOffset] = uint8(len(f.Interrupts))
	for i, irq := range f.Interrupts {
		format.PutU32(rec, format.IntListOffset+4*i, irq)
	}

	record, err := aml.NewResourceData(rec)
	if err != nil {
		return nil, err
	}
	return link(record, nameOp)
}
