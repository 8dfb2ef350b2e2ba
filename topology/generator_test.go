package topology

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/amlkit/aml"
	"github.com/joshuapare/amlkit/internal/format"
	"github.com/joshuapare/amlkit/pkg/types"
	"github.com/joshuapare/amlkit/provider"
)

const (
	tokRoot     = types.Token(0x100)
	tokCluster0 = types.Token(0x101)
	tokCluster1 = types.Token(0x102)
	tokGroup    = types.Token(0x200)
	tokState    = types.Token(0x201)
)

// twoClusterProvider builds the reference topology: one physical package
// holding two clusters of two processors each, UIDs 0 through 3.
func twoClusterProvider() *provider.Static {
	p := &provider.Static{
		Refs: map[types.Token][]types.Token{
			tokGroup: {tokState},
		},
		States: map[types.Token]types.PowerState{
			tokState: {
				MinResidency: 10000,
				WakeLatency:  1500,
				Flags:        1,
				Entry:        types.EntryMethod{Kind: types.EntryInteger, Integer: 3},
				Name:         "IDLE",
			},
		},
	}

	p.Nodes = append(p.Nodes, types.HierarchyNode{
		Token: tokRoot,
		Flags: types.FlagPhysicalPackage,
	})
	p.Nodes = append(p.Nodes,
		types.HierarchyNode{Token: tokCluster0, Parent: tokRoot},
		types.HierarchyNode{Token: tokCluster1, Parent: tokRoot},
	)

	for i := 0; i < 4; i++ {
		coreToken := types.Token(0x300 + i)
		parent := tokCluster0
		if i >= 2 {
			parent = tokCluster1
		}
		p.Cores = append(p.Cores, types.CoreInterface{Token: coreToken, UID: uint32(i)})
		p.Nodes = append(p.Nodes, types.HierarchyNode{
			Token:      types.Token(0x110 + i),
			Parent:     parent,
			CoreToken:  coreToken,
			PowerToken: tokGroup,
			Flags:      types.ProcessorRole,
		})
	}
	return p
}

func newBuild(t *testing.T, p types.Provider) (*build, *aml.ObjectNode) {
	t.Helper()
	nodes, err := p.HierarchyNodes()
	require.NoError(t, err)
	scope, err := aml.Scope(`\_SB_`, nil)
	require.NoError(t, err)
	return &build{
		provider: p,
		nodes:    nodes,
		byParent: childIndex(nodes),
		table:    newTokenTable(len(nodes)),
	}, scope
}

func childDevices(t *testing.T, parent *aml.ObjectNode) []*aml.ObjectNode {
	t.Helper()
	var devices []*aml.ObjectNode
	for _, c := range parent.Children() {
		if obj, ok := c.(*aml.ObjectNode); ok && obj.Op() == aml.OpDevice {
			devices = append(devices, obj)
		}
	}
	return devices
}

func deviceName(t *testing.T, dev *aml.ObjectNode) string {
	t.Helper()
	return string(dev.FixedArg(0).(*aml.DataNode).Bytes())
}

// namedValue finds Name(name, ...) among dev's children and returns its
// value node.
func namedValue(t *testing.T, dev *aml.ObjectNode, name string) *aml.DataNode {
	t.Helper()
	for _, c := range dev.Children() {
		obj, ok := c.(*aml.ObjectNode)
		if !ok || obj.Op() != aml.OpName {
			continue
		}
		if string(obj.FixedArg(0).(*aml.DataNode).Bytes()) == name {
			return obj.FixedArg(1).(*aml.DataNode)
		}
	}
	t.Fatalf("device %s has no named value %s", deviceName(t, dev), name)
	return nil
}

// methodTarget finds Method(name) among dev's children and returns the
// encoded name path its Return statement references.
func methodTarget(t *testing.T, dev *aml.ObjectNode, name string) []byte {
	t.Helper()
	for _, c := range dev.Children() {
		obj, ok := c.(*aml.ObjectNode)
		if !ok || obj.Op() != aml.OpMethod {
			continue
		}
		if string(obj.FixedArg(0).(*aml.DataNode).Bytes()) != name {
			continue
		}
		ret := obj.Children()[0].(*aml.ObjectNode)
		return ret.FixedArg(0).(*aml.DataNode).Bytes()
	}
	t.Fatalf("device %s has no method %s", deviceName(t, dev), name)
	return nil
}

func TestCreateTreeTwoClusters(t *testing.T) {
	p := twoClusterProvider()
	b, scope := newBuild(t, p)

	require.NoError(t, b.createTree(tokRoot, scope))

	clusters := childDevices(t, scope)
	require.Len(t, clusters, 2)
	require.Equal(t, "C000", deviceName(t, clusters[0]))
	require.Equal(t, "C001", deviceName(t, clusters[1]))

	uid := uint32(0)
	for i, cluster := range clusters {
		require.Equal(t, uint64(i), namedValue(t, cluster, "_UID").Uint())
		require.Equal(t, []byte("ACPI0010"), namedValue(t, cluster, "_HID").Bytes())

		cpus := childDevices(t, cluster)
		require.Len(t, cpus, 2)
		// Leaf numbering restarts inside every container.
		require.Equal(t, "C000", deviceName(t, cpus[0]))
		require.Equal(t, "C001", deviceName(t, cpus[1]))
		for _, cpu := range cpus {
			require.Equal(t, uint64(uid), namedValue(t, cpu, "_UID").Uint())
			require.Equal(t, []byte("ACPI0007"), namedValue(t, cpu, "_HID").Bytes())
			uid++
		}
	}
}

func TestSharedPowerGroupEmitsOneTableEntry(t *testing.T) {
	p := twoClusterProvider()
	b, scope := newBuild(t, p)

	require.NoError(t, b.createTree(tokRoot, scope))
	require.Equal(t, 1, b.table.len())

	// All four processors point at the same table entry.
	wantTarget := append([]byte{'\\', format.DualNamePrefix}, []byte("_SB_L000")...)
	for _, cluster := range childDevices(t, scope) {
		for _, cpu := range childDevices(t, cluster) {
			require.Equal(t, wantTarget, methodTarget(t, cpu, "_LPI"))
		}
	}

	require.NoError(t, b.emitStateTable(scope))

	// Exactly one Name(L000, Package) at scope level.
	var tables []*aml.ObjectNode
	for _, c := range scope.Children() {
		obj, ok := c.(*aml.ObjectNode)
		if ok && obj.Op() == aml.OpName {
			tables = append(tables, obj)
		}
	}
	require.Len(t, tables, 1)
	require.Equal(t, "L000", string(tables[0].FixedArg(0).(*aml.DataNode).Bytes()))

	pkg := tables[0].FixedArg(1).(*aml.ObjectNode)
	elems := pkg.Children()
	require.Len(t, elems, 4) // revision, level, count, one state
	require.Equal(t, uint64(stateTableRevision), elems[0].(*aml.DataNode).Uint())
	require.Equal(t, uint64(stateTableLevel), elems[1].(*aml.DataNode).Uint())
	require.Equal(t, uint64(1), elems[2].(*aml.DataNode).Uint())

	state := elems[3].(*aml.ObjectNode)
	require.Equal(t, aml.OpPackage, state.Op())
	fields := state.Children()
	require.Len(t, fields, 10)
	require.Equal(t, uint64(10000), fields[0].(*aml.DataNode).Uint()) // min residency
	require.Equal(t, uint64(1500), fields[1].(*aml.DataNode).Uint())  // wake latency
	require.Equal(t, uint64(1), fields[2].(*aml.DataNode).Uint())     // flags
	require.Equal(t, uint64(3), fields[6].(*aml.DataNode).Uint())     // integer entry method
	require.Equal(t, uint64(0), fields[7].(*aml.DataNode).Uint())     // no residency counter
	require.Equal(t, uint64(0), fields[8].(*aml.DataNode).Uint())     // no usage counter
	require.Equal(t, []byte("IDLE"), fields[9].(*aml.DataNode).Bytes())
}

func TestRegisterEntryMethodBecomesResourceBuffer(t *testing.T) {
	p := twoClusterProvider()
	p.States[tokState] = types.PowerState{
		Entry: types.EntryMethod{
			Kind: types.EntryRegister,
			Register: types.GenericAddress{
				SpaceID:    0x7F,
				BitWidth:   0x20,
				AccessSize: 3,
				Address:    0xFFFF0000,
			},
		},
		Name: "IDLE",
	}
	b, scope := newBuild(t, p)

	require.NoError(t, b.createTree(tokRoot, scope))
	require.NoError(t, b.emitStateTable(scope))

	var table *aml.ObjectNode
	for _, c := range scope.Children() {
		if obj, ok := c.(*aml.ObjectNode); ok && obj.Op() == aml.OpName {
			table = obj
		}
	}
	require.NotNil(t, table)

	state := table.FixedArg(1).(*aml.ObjectNode).Children()[3].(*aml.ObjectNode)
	entry := state.Children()[6].(*aml.ObjectNode)
	require.Equal(t, aml.OpBuffer, entry.Op())

	records := entry.Children()
	require.Len(t, records, 2)
	record := records[0].(*aml.DataNode)
	require.Equal(t, byte(format.RegisterDescName), record.Bytes()[0])
	require.True(t, records[1].(*aml.DataNode).IsEndTag())
}

func TestFindRootErrors(t *testing.T) {
	_, err := findRoot([]types.HierarchyNode{
		{Token: 1, Flags: types.FlagPhysicalPackage},
		{Token: 2, Flags: types.FlagPhysicalPackage},
	})
	require.ErrorIs(t, err, types.ErrTopology)

	_, err = findRoot([]types.HierarchyNode{
		{Token: 1, Parent: 2},
	})
	require.ErrorIs(t, err, types.ErrTopology)
}

func TestCreateTreeRejectsRoleMismatch(t *testing.T) {
	// A record with a core reference must carry processor flags.
	p := &provider.Static{
		Cores: []types.CoreInterface{{Token: 0x300, UID: 0}},
		Nodes: []types.HierarchyNode{
			{Token: tokRoot, Flags: types.FlagPhysicalPackage},
			{Token: 0x110, Parent: tokRoot, CoreToken: 0x300, Flags: types.FlagLeaf},
		},
	}
	b, scope := newBuild(t, p)
	err := b.createTree(tokRoot, scope)
	require.ErrorIs(t, err, types.ErrTopology)

	// A record without a core reference must carry container flags.
	p = &provider.Static{
		Nodes: []types.HierarchyNode{
			{Token: tokRoot, Flags: types.FlagPhysicalPackage},
			{Token: 0x110, Parent: tokRoot, Flags: types.FlagLeaf},
		},
	}
	b, scope = newBuild(t, p)
	err = b.createTree(tokRoot, scope)
	require.ErrorIs(t, err, types.ErrTopology)
}

func TestBuildProducesChecksummedArtifact(t *testing.T) {
	g := New(twoClusterProvider(), WithOEMTableID("TESTTOPO"))

	buf, err := g.Build()
	require.NoError(t, err)
	require.Equal(t, "SSDT", string(buf[:4]))
	require.Equal(t, uint32(len(buf)), format.ReadU32(buf, format.SdtLengthOffset))

	var sum byte
	for _, v := range buf {
		sum += v
	}
	require.Equal(t, byte(0), sum)
}

func TestBuildDeterministic(t *testing.T) {
	p := twoClusterProvider()
	first, err := New(p).Build()
	require.NoError(t, err)
	second, err := New(p).Build()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBuildFlatFallback(t *testing.T) {
	p := &provider.Static{
		Cores: []types.CoreInterface{
			{Token: 1, UID: 7},
			{Token: 2, UID: 9},
		},
	}
	g := New(p)

	buf, err := g.Build()
	require.NoError(t, err)

	// Rebuild the expected tree shape directly for comparison.
	root, err := aml.NewDefinitionBlock("SSDT", "AMLKIT", "CPU-TOPO", 1)
	require.NoError(t, err)
	scope, err := aml.Scope(`\_SB_`, root)
	require.NoError(t, err)
	for i, uid := range []uint64{7, 9} {
		name, err := aml.RoleName('C', uint32(i))
		require.NoError(t, err)
		dev, err := aml.Device(name, scope)
		require.NoError(t, err)
		_, err = aml.NameInteger("_UID", uid, dev)
		require.NoError(t, err)
		_, err = aml.NameString("_HID", "ACPI0007", dev)
		require.NoError(t, err)
	}
	want, err := root.Serialize()
	require.NoError(t, err)
	require.Equal(t, want, buf)
}

func TestBuildFailsWithoutRecords(t *testing.T) {
	g := New(&provider.Static{})
	_, err := g.Build()
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestBuildPropagatesUnknownCoreToken(t *testing.T) {
	p := twoClusterProvider()
	p.Cores = p.Cores[:2] // drop the cores referenced by the second cluster
	g := New(p)
	_, err := g.Build()
	require.ErrorIs(t, err, types.ErrNotFound)
}
