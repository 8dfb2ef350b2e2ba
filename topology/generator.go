package topology

import (
	"errors"
	"fmt"

	"github.com/joshuapare/amlkit/aml"
	"github.com/joshuapare/amlkit/pkg/types"
)

const (
	tableSignature = "SSDT"

	// Device identifiers published through _HID.
	processorHID = "ACPI0007"
	containerHID = "ACPI0010"

	// Role tags for generated namespace names.
	deviceTag = 'C'
	tableTag  = 'L'

	scopePath = `\_SB_`
)

// Generator builds one definition block per Build call from the records of
// a single provider. A Generator holds no state across builds.
type Generator struct {
	provider    types.Provider
	oemID       string
	oemTableID  string
	oemRevision uint32
}

// Option adjusts the header fields stamped into the produced artifact.
type Option func(*Generator)

// WithOEMID sets the six-character OEM ID header field.
func WithOEMID(id string) Option {
	return func(g *Generator) { g.oemID = id }
}

// WithOEMTableID sets the eight-character OEM table ID header field.
func WithOEMTableID(id string) Option {
	return func(g *Generator) { g.oemTableID = id }
}

// WithOEMRevision sets the OEM revision header field.
func WithOEMRevision(rev uint32) Option {
	return func(g *Generator) { g.oemRevision = rev }
}

// New creates a generator over p.
func New(p types.Provider, opts ...Option) *Generator {
	g := &Generator{
		provider:    p,
		oemID:       "AMLKIT",
		oemTableID:  "CPU-TOPO",
		oemRevision: 1,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Build assembles the topology tree from the provider's current records and
// serializes it. Nothing is returned on failure; the partially built tree
// is released before the error propagates.
func (g *Generator) Build() ([]byte, error) {
	root, err := aml.NewDefinitionBlock(tableSignature, g.oemID, g.oemTableID, g.oemRevision)
	if err != nil {
		return nil, err
	}

	buf, err := g.build(root)
	if err != nil {
		aml.DeleteTree(root)
		return nil, err
	}
	return buf, nil
}

func (g *Generator) build(root *aml.RootNode) ([]byte, error) {
	scope, err := aml.Scope(scopePath, root)
	if err != nil {
		return nil, err
	}

	nodes, err := g.provider.HierarchyNodes()
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	if len(nodes) == 0 {
		if err := g.buildFlat(scope); err != nil {
			return nil, err
		}
		return root.Serialize()
	}

	b := &build{
		provider: g.provider,
		nodes:    nodes,
		byParent: childIndex(nodes),
		table:    newTokenTable(len(nodes)),
	}

	rootToken, err := findRoot(nodes)
	if err != nil {
		return nil, err
	}
	if err := b.createTree(rootToken, scope); err != nil {
		return nil, err
	}
	if err := b.emitStateTable(scope); err != nil {
		return nil, err
	}
	return root.Serialize()
}

// buildFlat emits one processor device per core-interface record directly
// under the scope, numbered in discovery order. Used when the provider has
// no hierarchy records at all.
func (g *Generator) buildFlat(scope *aml.ObjectNode) error {
	cores, err := g.provider.CoreInterfaces()
	if err != nil {
		return err
	}
	if len(cores) == 0 {
		return &types.Error{
			Kind: types.ErrKindNotFound,
			Msg:  "topology: provider has no core interface records",
		}
	}
	for i, core := range cores {
		if _, err := createProcessor(scope, uint32(i), core.UID); err != nil {
			return err
		}
	}
	return nil
}

// findRoot locates the unique record with no parent and the physical
// package flag set.
func findRoot(nodes []types.HierarchyNode) (types.Token, error) {
	rootToken := types.NullToken
	found := false
	for _, n := range nodes {
		if n.Parent != types.NullToken || n.Flags&types.FlagPhysicalPackage == 0 {
			continue
		}
		if found {
			return types.NullToken, &types.Error{
				Kind: types.ErrKindTopology,
				Msg:  "topology: multiple physical package roots",
			}
		}
		rootToken = n.Token
		found = true
	}
	if !found {
		return types.NullToken, &types.Error{
			Kind: types.ErrKindTopology,
			Msg:  "topology: no physical package root",
		}
	}
	return rootToken, nil
}

// childIndex maps every parent token to the positions of its children in
// record order, replacing repeated linear scans during recursion.
func childIndex(nodes []types.HierarchyNode) map[types.Token][]int {
	byParent := make(map[types.Token][]int, len(nodes))
	for i, n := range nodes {
		byParent[n.Parent] = append(byParent[n.Parent], i)
	}
	return byParent
}

// build carries the state of one Build invocation.
type build struct {
	provider     types.Provider
	nodes        []types.HierarchyNode
	byParent     map[types.Token][]int
	table        *tokenTable
	clusterIndex uint32
}

// createTree emits the subtree below parentToken into parentNode.
// Processor numbering is local to the sibling group and restarts after
// every container; container numbering is global.
func (b *build) createTree(parentToken types.Token, parentNode *aml.ObjectNode) error {
	cpuIndex := uint32(0)
	for _, i := range b.byParent[parentToken] {
		node := b.nodes[i]
		if node.CoreToken != types.NullToken {
			if node.Flags&types.RoleMask != types.ProcessorRole {
				return &types.Error{
					Kind: types.ErrKindTopology,
					Msg:  fmt.Sprintf("topology: processor record %#x has container flags %#x", node.Token, node.Flags),
				}
			}
			if err := b.createProcessorNode(parentNode, cpuIndex, node); err != nil {
				return err
			}
			cpuIndex++
			continue
		}

		if node.Flags&types.RoleMask != types.ContainerRole {
			return &types.Error{
				Kind: types.ErrKindTopology,
				Msg:  fmt.Sprintf("topology: container record %#x has processor flags %#x", node.Token, node.Flags),
			}
		}
		cluster, err := b.createContainerNode(parentNode, b.clusterIndex, node)
		if err != nil {
			return err
		}
		b.clusterIndex++
		cpuIndex = 0
		if err := b.createTree(node.Token, cluster); err != nil {
			return err
		}
	}
	return nil
}

// createProcessorNode resolves the core-interface record and emits the
// processor device, with its _LPI accessor when a power group is attached.
func (b *build) createProcessorNode(parent *aml.ObjectNode, index uint32, node types.HierarchyNode) error {
	core, err := b.provider.CoreInterface(node.CoreToken)
	if err != nil {
		return err
	}
	dev, err := createProcessor(parent, index, core.UID)
	if err != nil {
		return err
	}
	if node.PowerToken != types.NullToken {
		return b.attachStateMethod(dev, node.PowerToken)
	}
	return nil
}

// createContainerNode emits a processor container device. Containers carry
// no native identifier, so the container index doubles as the _UID.
func (b *build) createContainerNode(parent *aml.ObjectNode, index uint32, node types.HierarchyNode) (*aml.ObjectNode, error) {
	name, err := aml.RoleName(deviceTag, index)
	if err != nil {
		return nil, err
	}
	dev, err := aml.Device(name, parent)
	if err != nil {
		return nil, err
	}
	if _, err := aml.NameInteger("_UID", uint64(index), dev); err != nil {
		return nil, err
	}
	if _, err := aml.NameString("_HID", containerHID, dev); err != nil {
		return nil, err
	}
	if node.PowerToken != types.NullToken {
		if err := b.attachStateMethod(dev, node.PowerToken); err != nil {
			return nil, err
		}
	}
	return dev, nil
}

func createProcessor(parent *aml.ObjectNode, index uint32, uid uint32) (*aml.ObjectNode, error) {
	name, err := aml.RoleName(deviceTag, index)
	if err != nil {
		return nil, err
	}
	dev, err := aml.Device(name, parent)
	if err != nil {
		return nil, err
	}
	if _, err := aml.NameInteger("_UID", uint64(uid), dev); err != nil {
		return nil, err
	}
	if _, err := aml.NameString("_HID", processorHID, dev); err != nil {
		return nil, err
	}
	return dev, nil
}

// attachStateMethod adds a _LPI method returning the shared state table
// entry for the node's power group. The table index is allocated on first
// sight of the group token and reused afterwards.
func (b *build) attachStateMethod(dev *aml.ObjectNode, powerToken types.Token) error {
	index, err := b.table.add(powerToken)
	if err != nil {
		return err
	}
	name, err := aml.RoleName(tableTag, uint32(index))
	if err != nil {
		return err
	}
	_, err = aml.MethodReturnNameString("_LPI", scopePath+"."+name, 0, false, 0, dev)
	return err
}
