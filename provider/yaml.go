package provider

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/amlkit/pkg/types"
)

// YAML topology description:
//
//	cores:
//	  - id: core0
//	    uid: 0
//	nodes:
//	  - id: package
//	    physical: true
//	  - id: cluster0
//	    parent: package
//	  - id: cpu0
//	    parent: cluster0
//	    core: core0
//	    power-group: lpi0
//	power-groups:
//	  lpi0:
//	    - name: WFI
//	      min-residency: 1
//	      wake-latency: 1
//	      entry:
//	        kind: register
//	        register: {space: 0x7F, bit-width: 32, access-size: 3, address: 0xFFFFFFFF}
//
// Node flags are derived: a node with a core reference is a leaf processor,
// a node marked physical is the package root, anything else is a container.
type document struct {
	Cores       []coreDoc             `yaml:"cores"`
	Nodes       []nodeDoc             `yaml:"nodes"`
	PowerGroups map[string][]stateDoc `yaml:"power-groups"`
}

type coreDoc struct {
	ID  string `yaml:"id"`
	UID uint32 `yaml:"uid"`
}

type nodeDoc struct {
	ID         string `yaml:"id"`
	Parent     string `yaml:"parent"`
	Core       string `yaml:"core"`
	PowerGroup string `yaml:"power-group"`
	Physical   bool   `yaml:"physical"`
}

type registerDoc struct {
	Space      uint8  `yaml:"space"`
	BitWidth   uint8  `yaml:"bit-width"`
	BitOffset  uint8  `yaml:"bit-offset"`
	AccessSize uint8  `yaml:"access-size"`
	Address    uint64 `yaml:"address"`
}

type entryDoc struct {
	Kind     string      `yaml:"kind"`
	Integer  uint64      `yaml:"integer"`
	Register registerDoc `yaml:"register"`
}

type stateDoc struct {
	Name                 string       `yaml:"name"`
	MinResidency         uint32       `yaml:"min-residency"`
	WakeLatency          uint32       `yaml:"wake-latency"`
	Flags                uint32       `yaml:"flags"`
	ArchFlags            uint32       `yaml:"arch-flags"`
	ResidencyCounterFreq uint32       `yaml:"residency-counter-freq"`
	EnableParentState    uint32       `yaml:"enable-parent-state"`
	Entry                entryDoc     `yaml:"entry"`
	ResidencyCounter     *registerDoc `yaml:"residency-counter"`
	UsageCounter         *registerDoc `yaml:"usage-counter"`
}

// LoadFile reads a YAML topology description from path.
func LoadFile(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("provider: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a YAML topology description and maps the string identifiers
// onto dense tokens. Duplicate and dangling identifiers are rejected.
func Load(r io.Reader) (*Static, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  "provider: malformed topology description",
			Err:  err,
		}
	}
	return doc.resolve()
}

func (d *document) resolve() (*Static, error) {
	next := types.Token(1)
	mint := func() types.Token {
		tok := next
		next++
		return tok
	}

	s := &Static{
		Refs:   make(map[types.Token][]types.Token),
		States: make(map[types.Token]types.PowerState),
	}

	coreTokens := make(map[string]types.Token, len(d.Cores))
	for _, c := range d.Cores {
		if c.ID == "" {
			return nil, invalidf("core record without id")
		}
		if _, dup := coreTokens[c.ID]; dup {
			return nil, invalidf("duplicate core id %q", c.ID)
		}
		tok := mint()
		coreTokens[c.ID] = tok
		s.Cores = append(s.Cores, types.CoreInterface{Token: tok, UID: c.UID})
	}

	groupTokens := make(map[string]types.Token, len(d.PowerGroups))
	for name, states := range d.PowerGroups {
		if len(states) == 0 {
			return nil, invalidf("power group %q has no states", name)
		}
		groupTokens[name] = mint()
	}
	for name, states := range d.PowerGroups {
		groupToken := groupTokens[name]
		for _, st := range states {
			state, err := st.resolve(name)
			if err != nil {
				return nil, err
			}
			tok := mint()
			s.States[tok] = state
			s.Refs[groupToken] = append(s.Refs[groupToken], tok)
		}
	}

	nodeTokens := make(map[string]types.Token, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return nil, invalidf("node record without id")
		}
		if _, dup := nodeTokens[n.ID]; dup {
			return nil, invalidf("duplicate node id %q", n.ID)
		}
		nodeTokens[n.ID] = mint()
	}
	for _, n := range d.Nodes {
		rec := types.HierarchyNode{Token: nodeTokens[n.ID]}
		if n.Parent != "" {
			parent, ok := nodeTokens[n.Parent]
			if !ok {
				return nil, invalidf("node %q references unknown parent %q", n.ID, n.Parent)
			}
			rec.Parent = parent
		}
		if n.Core != "" {
			core, ok := coreTokens[n.Core]
			if !ok {
				return nil, invalidf("node %q references unknown core %q", n.ID, n.Core)
			}
			rec.CoreToken = core
			rec.Flags |= types.FlagIDValid | types.FlagLeaf
		}
		if n.PowerGroup != "" {
			group, ok := groupTokens[n.PowerGroup]
			if !ok {
				return nil, invalidf("node %q references unknown power group %q", n.ID, n.PowerGroup)
			}
			rec.PowerToken = group
		}
		if n.Physical {
			rec.Flags |= types.FlagPhysicalPackage
		}
		s.Nodes = append(s.Nodes, rec)
	}

	return s, nil
}

func (st *stateDoc) resolve(group string) (types.PowerState, error) {
	state := types.PowerState{
		MinResidency:         st.MinResidency,
		WakeLatency:          st.WakeLatency,
		Flags:                st.Flags,
		ArchFlags:            st.ArchFlags,
		ResidencyCounterFreq: st.ResidencyCounterFreq,
		EnableParentState:    st.EnableParentState,
		Name:                 st.Name,
	}

	switch st.Entry.Kind {
	case "", "integer":
		state.Entry = types.EntryMethod{Kind: types.EntryInteger, Integer: st.Entry.Integer}
	case "register":
		state.Entry = types.EntryMethod{Kind: types.EntryRegister, Register: st.Entry.Register.address()}
	default:
		return types.PowerState{}, invalidf("power group %q: unknown entry kind %q", group, st.Entry.Kind)
	}

	if st.ResidencyCounter != nil {
		reg := st.ResidencyCounter.address()
		state.ResidencyCounter = &reg
	}
	if st.UsageCounter != nil {
		reg := st.UsageCounter.address()
		state.UsageCounter = &reg
	}
	return state, nil
}

func (r *registerDoc) address() types.GenericAddress {
	return types.GenericAddress{
		SpaceID:    r.Space,
		BitWidth:   r.BitWidth,
		BitOffset:  r.BitOffset,
		AccessSize: r.AccessSize,
		Address:    r.Address,
	}
}

func invalidf(format string, args ...any) error {
	return &types.Error{
		Kind: types.ErrKindInvalidArgument,
		Msg:  "provider: " + fmt.Sprintf(format, args...),
	}
}
