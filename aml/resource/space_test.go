package resource

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/amlkit/aml"
	"github.com/joshuapare/amlkit/internal/format"
	"github.com/joshuapare/amlkit/pkg/types"
)

func TestCheckAddressSpaceFieldCombinations(t *testing.T) {
	cases := []struct {
		name   string
		fields AddressSpaceFields
		ok     bool
	}{
		{
			name:   "fixed window matching length",
			fields: AddressSpaceFields{MinFixed: true, MaxFixed: true, Granularity: 0xFFF, Min: 0x1000, Max: 0x1FFF, Length: 0x1000},
			ok:     true,
		},
		{
			name:   "fixed window no granularity",
			fields: AddressSpaceFields{MinFixed: true, MaxFixed: true, Min: 0, Max: 0xFF, Length: 0x80},
			ok:     true,
		},
		{
			name:   "floating window nonzero length",
			fields: AddressSpaceFields{Min: 0, Max: 0xFFFF, Length: 0x100},
			ok:     true,
		},
		{
			name:   "zero length min fixed aligned",
			fields: AddressSpaceFields{MinFixed: true, Granularity: 0xFF, Min: 0x100, Max: 0xFFFF},
			ok:     true,
		},
		{
			name:   "zero length max fixed aligned",
			fields: AddressSpaceFields{MaxFixed: true, Granularity: 0xFF, Min: 0, Max: 0x1FF},
			ok:     true,
		},
		{
			name:   "minimum above maximum",
			fields: AddressSpaceFields{Min: 0x200, Max: 0x100, Length: 1},
		},
		{
			name:   "length exceeds window",
			fields: AddressSpaceFields{Min: 0x100, Max: 0x1FF, Length: 0x101},
		},
		{
			name:   "granularity not an alignment mask",
			fields: AddressSpaceFields{Granularity: 5, Min: 0, Max: 0xFF, Length: 0x100},
		},
		{
			name:   "nonzero length with one endpoint fixed",
			fields: AddressSpaceFields{MinFixed: true, Min: 0, Max: 0xFF, Length: 0x100},
		},
		{
			name:   "fixed window contradicting length",
			fields: AddressSpaceFields{MinFixed: true, MaxFixed: true, Granularity: 0xFF, Min: 0, Max: 0x1FF, Length: 0x100},
		},
		{
			name:   "zero length with both endpoints fixed",
			fields: AddressSpaceFields{MinFixed: true, MaxFixed: true, Min: 0, Max: 0xFF},
		},
		{
			name:   "zero length min fixed misaligned",
			fields: AddressSpaceFields{MinFixed: true, Granularity: 0xF, Min: 1, Max: 0xFF},
		},
		{
			name:   "zero length max fixed misaligned",
			fields: AddressSpaceFields{MaxFixed: true, Granularity: 0xF, Min: 0, Max: 0x10},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := QWordSpace(format.SpaceTypeMemory, 0, tc.fields, nil)
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, types.ErrInvalidArgument)
			}
		})
	}
}

func TestWordBusNumberEncoding(t *testing.T) {
	rd, err := WordBusNumber(AddressSpaceFields{
		PosDecode: true,
		MinFixed:  true,
		MaxFixed:  true,
		Min:       0,
		Max:       0xFF,
		Length:    0x100,
	}, nil)
	require.NoError(t, err)

	want := []byte{
		0x88, 0x0D, 0x00, // name, payload length
		0x02,       // resource type: bus
		0x0C,       // general flags: min and max fixed
		0x00,       // no type specific flags for buses
		0x00, 0x00, // granularity
		0x00, 0x00, // minimum
		0xFF, 0x00, // maximum
		0x00, 0x00, // translation
		0x00, 0x01, // length
	}
	require.Equal(t, want, rd.Bytes())
}

func TestWordSpaceRejectsWideFields(t *testing.T) {
	_, err := WordSpace(format.SpaceTypeBus, 0, AddressSpaceFields{
		Min:    0,
		Max:    0x10000,
		Length: 1,
	}, nil)
	require.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestDWordSpaceRejectsWideFields(t *testing.T) {
	_, err := DWordSpace(format.SpaceTypeMemory, 0, AddressSpaceFields{
		Min:    0,
		Max:    0x1_0000_0000,
		Length: 1,
	}, nil)
	require.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestQWordMemoryRoundTrip(t *testing.T) {
	fields := AddressSpaceFields{
		PosDecode:   true,
		MinFixed:    true,
		MaxFixed:    true,
		Granularity: 0xFFFFF,
		Min:         0x100000,
		Max:         0x1FFFFF,
		Translation: 0,
		Length:      0x100000,
	}
	rd, err := QWordMemory(fields, 1, true, 0, true, nil)
	require.NoError(t, err)

	rec := rd.Bytes()
	require.Len(t, rec, format.QWordSpaceRecordSize)
	require.Equal(t, byte(format.QWordSpaceDescName), rec[0])
	require.Equal(t, uint16(format.QWordSpaceDescLength), format.ReadU16(rec, 1))
	require.Equal(t, byte(format.SpaceTypeMemory), rec[format.SpaceResTypeOffset])
	require.Equal(t, byte(0x0C), rec[format.SpaceGenFlagOffset])
	require.Equal(t, byte(0x03), rec[format.SpaceTypeFlagOffset])

	off := format.SpaceAddrBlockOffset
	for _, want := range []uint64{fields.Granularity, fields.Min, fields.Max, fields.Translation, fields.Length} {
		require.Equal(t, want, format.ReadU64(rec, off))
		off += 8
	}
}

func TestDWordIOAppendsBeforeEndTag(t *testing.T) {
	name, err := aml.NameResourceTemplate("_CRS", nil)
	require.NoError(t, err)

	rd, err := DWordIO(AddressSpaceFields{
		MinFixed: true,
		MaxFixed: true,
		Min:      0x1000,
		Max:      0x1FFF,
		Length:   0x1000,
	}, format.IOMaxIsaRanges, true, true, name)
	require.NoError(t, err)
	require.NotNil(t, rd.Parent())

	buffer := rd.Parent().(*aml.ObjectNode)
	children := buffer.Children()
	require.Len(t, children, 2)
	require.Same(t, rd, children[0])
	require.True(t, children[1].(*aml.DataNode).IsEndTag())
}

func TestInvalidSpaceLeavesTreeUntouched(t *testing.T) {
	name, err := aml.NameResourceTemplate("_CRS", nil)
	require.NoError(t, err)

	_, err = DWordIO(AddressSpaceFields{
		MinFixed: true, // one endpoint fixed with nonzero length
		Min:      0,
		Max:      0xFF,
		Length:   0x100,
	}, 1, true, true, name)
	require.ErrorIs(t, err, types.ErrInvalidArgument)

	buffer := name.FixedArg(1).(*aml.ObjectNode)
	require.Len(t, buffer.Children(), 1)
	require.True(t, buffer.Children()[0].(*aml.DataNode).IsEndTag())
}
