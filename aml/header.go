package aml

import (
	"fmt"
	"strings"

	"github.com/joshuapare/amlkit/internal/format"
	"github.com/joshuapare/amlkit/pkg/types"
)

// TableHeader is the decoded 36-byte header of a serialized table.
type TableHeader struct {
	Signature       string
	Length          uint32
	Revision        uint8
	Checksum        uint8
	OEMID           string
	OEMTableID      string
	OEMRevision     uint32
	CreatorID       string
	CreatorRevision uint32
}

// ParseHeader decodes the header of a serialized table. The buffer must
// hold at least the header and be as long as the header's length field
// claims.
func ParseHeader(buf []byte) (TableHeader, error) {
	if len(buf) < format.SdtHeaderSize {
		return TableHeader{}, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("header: %d bytes, need at least %d", len(buf), format.SdtHeaderSize),
		}
	}
	h := TableHeader{
		Signature:       string(buf[format.SdtSignatureOffset : format.SdtSignatureOffset+format.SdtSignatureSize]),
		Length:          format.ReadU32(buf, format.SdtLengthOffset),
		Revision:        buf[format.SdtRevisionOffset],
		Checksum:        buf[format.SdtChecksumOffset],
		OEMID:           strings.TrimRight(string(buf[format.SdtOemIDOffset:format.SdtOemIDOffset+format.SdtOemIDSize]), " "),
		OEMTableID:      strings.TrimRight(string(buf[format.SdtOemTableIDOffset:format.SdtOemTableIDOffset+format.SdtOemTableIDSize]), " "),
		OEMRevision:     format.ReadU32(buf, format.SdtOemRevisionOffset),
		CreatorID:       string(buf[format.SdtCreatorIDOffset : format.SdtCreatorIDOffset+format.SdtCreatorIDSize]),
		CreatorRevision: format.ReadU32(buf, format.SdtCreatorRevOffset),
	}
	if int(h.Length) != len(buf) {
		return TableHeader{}, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("header: length field %d does not match %d buffer bytes", h.Length, len(buf)),
		}
	}
	return h, nil
}

// VerifyChecksum reports whether the whole table sums to zero mod 256.
func VerifyChecksum(buf []byte) bool {
	var sum byte
	for _, v := range buf {
		sum += v
	}
	return sum == 0
}
