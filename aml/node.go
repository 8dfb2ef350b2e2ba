package aml

import (
	"fmt"

	"github.com/joshuapare/amlkit/internal/format"
	"github.com/joshuapare/amlkit/pkg/types"
)

// Node is the common interface of everything that can live in the object
// tree: the root, object nodes, and data nodes.
type Node interface {
	// Parent returns the owning node, or nil for a detached node or the root.
	Parent() Node

	setParent(Node)
}

// Op identifies the construct an ObjectNode represents. Extended opcodes
// carry the 0x5B prefix implicitly; Op values are compared as pairs of
// (primary, extended) bytes.
type Op struct {
	Primary  byte
	Extended byte // 0 unless Primary is the extended opcode prefix
}

// Well-known construct opcodes.
var (
	OpName    = Op{Primary: format.NameOp}
	OpScope   = Op{Primary: format.ScopeOp}
	OpBuffer  = Op{Primary: format.BufferOp}
	OpPackage = Op{Primary: format.PackageOp}
	OpMethod  = Op{Primary: format.MethodOp}
	OpReturn  = Op{Primary: format.ReturnOp}
	OpDevice  = Op{Primary: format.ExtOpPrefix, Extended: format.DeviceOp}
)

// opAttr describes how a construct serializes: opcode byte count, whether
// the body is prefixed by a PkgLength, and whether a one-byte element count
// precedes the variable children.
type opAttr struct {
	hasPkgLen    bool
	hasElemCount bool
}

var opAttrs = map[Op]opAttr{
	OpName:    {},
	OpReturn:  {},
	OpScope:   {hasPkgLen: true},
	OpDevice:  {hasPkgLen: true},
	OpMethod:  {hasPkgLen: true},
	OpBuffer:  {hasPkgLen: true},
	OpPackage: {hasPkgLen: true, hasElemCount: true},
}

func (o Op) size() int {
	if o.Primary == format.ExtOpPrefix {
		return 2
	}
	return 1
}

// ObjectNode represents a named or structural construct: it carries an
// opcode, a fixed list of argument slots, and an ordered list of variable
// children.
type ObjectNode struct {
	parent   Node
	op       Op
	fixed    []Node
	children []Node
}

// Parent returns the owner of the node.
func (n *ObjectNode) Parent() Node { return n.parent }

func (n *ObjectNode) setParent(p Node) { n.parent = p }

// Op returns the construct opcode.
func (n *ObjectNode) Op() Op { return n.op }

// FixedArg returns the i-th fixed argument slot, or nil when out of range.
func (n *ObjectNode) FixedArg(i int) Node {
	if i < 0 || i >= len(n.fixed) {
		return nil
	}
	return n.fixed[i]
}

// Children returns the variable children in order. The returned slice is
// the node's own storage; callers must not mutate it.
func (n *ObjectNode) Children() []Node { return n.children }

func newObjectNode(op Op, fixed ...Node) *ObjectNode {
	n := &ObjectNode{op: op, fixed: fixed}
	for _, f := range fixed {
		if f != nil {
			f.setParent(n)
		}
	}
	return n
}

// DataKind distinguishes the payload forms a DataNode can carry.
type DataKind uint8

const (
	// KindNameString holds a pre-encoded namespace name path.
	KindNameString DataKind = iota
	// KindString holds raw ASCII string bytes (no prefix, no terminator).
	KindString
	// KindUInt holds an unsigned integer, serialized in minimal form.
	KindUInt
	// KindByteData holds a single raw byte (method flags, element counts).
	KindByteData
	// KindResourceData holds one encoded resource descriptor record.
	KindResourceData
)

// DataNode is an opaque payload of a known kind with no children.
type DataNode struct {
	parent Node
	kind   DataKind
	data   []byte
	value  uint64 // meaningful for KindUInt only
}

// Parent returns the owner of the node.
func (n *DataNode) Parent() Node { return n.parent }

func (n *DataNode) setParent(p Node) { n.parent = p }

// Kind returns the payload kind.
func (n *DataNode) Kind() DataKind { return n.kind }

// Bytes returns the raw payload. For KindUInt the payload is derived at
// serialization time and Bytes returns nil.
func (n *DataNode) Bytes() []byte { return n.data }

// Uint returns the integer value of a KindUInt node.
func (n *DataNode) Uint() uint64 { return n.value }

func (n *DataNode) setUint(v uint64) { n.value = v }

// NewResourceData wraps an encoded resource descriptor record in a
// detached data node. The record bytes are serialized verbatim.
func NewResourceData(record []byte) (*DataNode, error) {
	if len(record) == 0 {
		return nil, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  "resource data: empty record",
		}
	}
	return &DataNode{kind: KindResourceData, data: record}, nil
}

// IsEndTag reports whether the data node holds an end tag resource record.
func (n *DataNode) IsEndTag() bool {
	return n.kind == KindResourceData && len(n.data) > 0 && n.data[0] == format.EndTagDesc
}

func newNameStringNode(path string) (*DataNode, error) {
	enc, err := encodeNameString(path)
	if err != nil {
		return nil, err
	}
	return &DataNode{kind: KindNameString, data: enc}, nil
}

func newStringNode(s string) (*DataNode, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 || s[i] > 0x7F {
			return nil, &types.Error{
				Kind: types.ErrKindInvalidArgument,
				Msg:  fmt.Sprintf("string value %q: byte %d not printable ASCII", s, i),
			}
		}
	}
	return &DataNode{kind: KindString, data: []byte(s)}, nil
}

func newUintNode(v uint64) *DataNode {
	return &DataNode{kind: KindUInt, value: v}
}

func newByteNode(b byte) *DataNode {
	return &DataNode{kind: KindByteData, data: []byte{b}}
}

// RootNode anchors a definition block: it holds the table header fields
// the serializer prepends and the top-level term list.
type RootNode struct {
	signature   string
	oemID       string
	oemTableID  string
	oemRevision uint32
	children    []Node
}

// Parent returns nil; the root owns itself.
func (r *RootNode) Parent() Node { return nil }

func (r *RootNode) setParent(Node) {}

// Children returns the top-level term list.
func (r *RootNode) Children() []Node { return r.children }

// NewDefinitionBlock creates the root of a new table: signature must be
// exactly four characters; oemID and oemTableID are space padded to their
// header slots.
func NewDefinitionBlock(signature, oemID, oemTableID string, oemRevision uint32) (*RootNode, error) {
	if len(signature) != format.SdtSignatureSize {
		return nil, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("definition block: signature %q must be %d chars", signature, format.SdtSignatureSize),
		}
	}
	if len(oemID) > format.SdtOemIDSize {
		return nil, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("definition block: OEM ID %q exceeds %d chars", oemID, format.SdtOemIDSize),
		}
	}
	if len(oemTableID) > format.SdtOemTableIDSize {
		return nil, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("definition block: OEM table ID %q exceeds %d chars", oemTableID, format.SdtOemTableIDSize),
		}
	}
	return &RootNode{
		signature:   signature,
		oemID:       oemID,
		oemTableID:  oemTableID,
		oemRevision: oemRevision,
	}, nil
}
