package provider

import (
	"fmt"

	"github.com/joshuapare/amlkit/pkg/types"
)

// Static is an in-memory record source. The fields are read directly; the
// caller must not mutate them once a build is running.
type Static struct {
	Cores  []types.CoreInterface
	Nodes  []types.HierarchyNode
	Refs   map[types.Token][]types.Token
	States map[types.Token]types.PowerState
}

var _ types.Provider = (*Static)(nil)

// CoreInterfaces returns every core interface record in insertion order.
func (s *Static) CoreInterfaces() ([]types.CoreInterface, error) {
	if len(s.Cores) == 0 {
		return nil, &types.Error{
			Kind: types.ErrKindNotFound,
			Msg:  "provider: no core interface records",
		}
	}
	return s.Cores, nil
}

// CoreInterface resolves a core interface record by token.
func (s *Static) CoreInterface(tok types.Token) (types.CoreInterface, error) {
	for _, c := range s.Cores {
		if c.Token == tok {
			return c, nil
		}
	}
	return types.CoreInterface{}, &types.Error{
		Kind: types.ErrKindNotFound,
		Msg:  fmt.Sprintf("provider: no core interface record for token %#x", tok),
	}
}

// HierarchyNodes returns every hierarchy record in insertion order.
func (s *Static) HierarchyNodes() ([]types.HierarchyNode, error) {
	if len(s.Nodes) == 0 {
		return nil, &types.Error{
			Kind: types.ErrKindNotFound,
			Msg:  "provider: no hierarchy records",
		}
	}
	return s.Nodes, nil
}

// References resolves a cross-reference record by group token.
func (s *Static) References(tok types.Token) ([]types.Token, error) {
	refs, ok := s.Refs[tok]
	if !ok {
		return nil, &types.Error{
			Kind: types.ErrKindNotFound,
			Msg:  fmt.Sprintf("provider: no reference record for token %#x", tok),
		}
	}
	return refs, nil
}

// PowerState resolves a low-power-state descriptor by token.
func (s *Static) PowerState(tok types.Token) (types.PowerState, error) {
	state, ok := s.States[tok]
	if !ok {
		return types.PowerState{}, &types.Error{
			Kind: types.ErrKindNotFound,
			Msg:  fmt.Sprintf("provider: no power state record for token %#x", tok),
		}
	}
	return state, nil
}
