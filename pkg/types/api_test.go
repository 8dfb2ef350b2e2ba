package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorKindMatching(t *testing.T) {
	err := &Error{Kind: ErrKindInvalidArgument, Msg: "granularity not a power of two minus one"}
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Kind: ErrKindTopology, Msg: "duplicate root", Err: cause}
	require.ErrorIs(t, err, cause)
	require.Equal(t, "duplicate root: boom", err.Error())

	wrapped := fmt.Errorf("build: %w", err)
	require.ErrorIs(t, wrapped, ErrTopology)
}

func TestRoleMasks(t *testing.T) {
	cpu := FlagIDValid | FlagLeaf
	require.Equal(t, ProcessorRole, cpu&RoleMask)

	cluster := NodeFlags(0)
	require.Equal(t, ContainerRole, cluster&RoleMask)

	// The physical package root matches neither role.
	root := FlagPhysicalPackage
	require.NotEqual(t, ProcessorRole, root&RoleMask)
	require.NotEqual(t, ContainerRole, root&RoleMask)
}
