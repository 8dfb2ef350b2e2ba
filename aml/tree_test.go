package aml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/amlkit/internal/format"
	"github.com/joshuapare/amlkit/pkg/types"
)

func testRecord(t *testing.T, first byte) *DataNode {
	t.Helper()
	rd, err := NewResourceData([]byte{first, 0x01, 0x00, 0xAA})
	require.NoError(t, err)
	return rd
}

func TestAppendResourceKeepsEndTagLast(t *testing.T) {
	name, err := NameResourceTemplate("_CRS", nil)
	require.NoError(t, err)

	buffer, err := resourceBuffer(name)
	require.NoError(t, err)
	require.Len(t, buffer.Children(), 1) // the end tag

	for i := 0; i < 3; i++ {
		require.NoError(t, AppendResource(name, testRecord(t, format.RegisterDescName)))
	}

	children := buffer.Children()
	require.Len(t, children, 4)
	for i := 0; i < 3; i++ {
		d := children[i].(*DataNode)
		require.False(t, d.IsEndTag(), "record %d", i)
	}
	last := children[3].(*DataNode)
	require.True(t, last.IsEndTag())
}

func TestAppendResourceUpdatesBufferSize(t *testing.T) {
	name, err := NameResourceTemplate("_CRS", nil)
	require.NoError(t, err)
	buffer, err := resourceBuffer(name)
	require.NoError(t, err)

	size := buffer.FixedArg(0).(*DataNode)
	require.Equal(t, uint64(format.EndTagLength), size.Uint())

	require.NoError(t, AppendResource(name, testRecord(t, format.RegisterDescName)))
	require.Equal(t, uint64(format.EndTagLength+4), size.Uint())
}

func TestAppendResourceStructuralMismatch(t *testing.T) {
	// A named integer is not a named value wrapping a buffer.
	name, err := NameInteger("_UID", 7, nil)
	require.NoError(t, err)

	err = AppendResource(name, testRecord(t, format.RegisterDescName))
	require.ErrorIs(t, err, types.ErrStructuralMismatch)

	// Nor is a bare device.
	dev, err := Device("DEV0", nil)
	require.NoError(t, err)
	err = AppendResource(dev, testRecord(t, format.RegisterDescName))
	require.ErrorIs(t, err, types.ErrStructuralMismatch)
}

func TestDeleteTreeDetaches(t *testing.T) {
	root, err := NewDefinitionBlock("SSDT", "AMLKIT", "TESTTBL", 1)
	require.NoError(t, err)
	scope, err := Scope(`\_SB_`, root)
	require.NoError(t, err)
	dev, err := Device("C000", scope)
	require.NoError(t, err)
	_, err = NameInteger("_UID", 0, dev)
	require.NoError(t, err)

	require.Len(t, scope.Children(), 1)
	DeleteTree(dev)
	require.Empty(t, scope.Children())
	require.Nil(t, dev.Parent())
}

func TestAttachRejectsDoubleOwnership(t *testing.T) {
	scope, err := Scope(`\_SB_`, nil)
	require.NoError(t, err)
	dev, err := Device("C000", scope)
	require.NoError(t, err)

	other, err := Scope(`\_SB_`, nil)
	require.NoError(t, err)
	err = attach(dev, other)
	require.ErrorIs(t, err, types.ErrStructuralMismatch)
}

func TestAttachRejectsLeafParents(t *testing.T) {
	name, err := NameInteger("_UID", 0, nil)
	require.NoError(t, err)
	dev, err := Device("C000", nil)
	require.NoError(t, err)
	err = attach(dev, name)
	require.ErrorIs(t, err, types.ErrStructuralMismatch)
}
