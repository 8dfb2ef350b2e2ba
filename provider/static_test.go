package provider

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/amlkit/pkg/types"
)

func TestStaticCoreInterfaceLookup(t *testing.T) {
	s := &Static{
		Cores: []types.CoreInterface{
			{Token: 1, UID: 10},
			{Token: 2, UID: 20},
		},
	}

	core, err := s.CoreInterface(2)
	require.NoError(t, err)
	require.Equal(t, uint32(20), core.UID)

	_, err = s.CoreInterface(3)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestStaticEmptyCategories(t *testing.T) {
	s := &Static{}

	_, err := s.CoreInterfaces()
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = s.HierarchyNodes()
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = s.References(1)
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = s.PowerState(1)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestStaticPreservesOrder(t *testing.T) {
	s := &Static{
		Nodes: []types.HierarchyNode{
			{Token: 3},
			{Token: 1},
			{Token: 2},
		},
	}
	nodes, err := s.HierarchyNodes()
	require.NoError(t, err)
	require.Equal(t, types.Token(3), nodes[0].Token)
	require.Equal(t, types.Token(1), nodes[1].Token)
	require.Equal(t, types.Token(2), nodes[2].Token)
}
