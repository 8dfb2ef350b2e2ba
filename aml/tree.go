package aml

import (
	"fmt"

	"github.com/joshuapare/amlkit/pkg/types"
)

// attach appends child to parent's variable list. Only the root and
// constructs with a term or element list accept children.
func attach(child Node, parent Node) error {
	if child == nil || parent == nil {
		return &types.Error{Kind: types.ErrKindInvalidArgument, Msg: "attach: nil node"}
	}
	if child.Parent() != nil {
		return &types.Error{Kind: types.ErrKindStructure, Msg: "attach: node already owned"}
	}
	switch p := parent.(type) {
	case *RootNode:
		p.children = append(p.children, child)
	case *ObjectNode:
		switch p.op {
		case OpScope, OpDevice, OpMethod, OpBuffer, OpPackage:
			p.children = append(p.children, child)
		default:
			return &types.Error{
				Kind: types.ErrKindStructure,
				Msg:  fmt.Sprintf("attach: construct %#x has no variable list", p.op.Primary),
			}
		}
	default:
		return &types.Error{Kind: types.ErrKindStructure, Msg: "attach: parent cannot own children"}
	}
	child.setParent(parent)
	return nil
}

// insertChild places child at position i of parent's variable list,
// shifting later children right.
func insertChild(child Node, parent *ObjectNode, i int) error {
	if i < 0 || i > len(parent.children) {
		return &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("insert: index %d out of range", i),
		}
	}
	if child.Parent() != nil {
		return &types.Error{Kind: types.ErrKindStructure, Msg: "insert: node already owned"}
	}
	parent.children = append(parent.children, nil)
	copy(parent.children[i+1:], parent.children[i:])
	parent.children[i] = child
	child.setParent(parent)
	return nil
}

// DeleteTree detaches node from its owner, if any, and releases the whole
// subtree beneath it. Deleting nil is a no-op.
func DeleteTree(node Node) {
	if node == nil {
		return
	}
	detach(node)
	release(node)
}

func detach(node Node) {
	parent := node.Parent()
	if parent == nil {
		return
	}
	switch p := parent.(type) {
	case *RootNode:
		p.children = removeNode(p.children, node)
	case *ObjectNode:
		p.children = removeNode(p.children, node)
		for i, f := range p.fixed {
			if f == node {
				p.fixed[i] = nil
			}
		}
	}
	node.setParent(nil)
}

func removeNode(list []Node, node Node) []Node {
	for i, n := range list {
		if n == node {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// release drops ownership links so the subtree is unreachable from the
// tree. The memory itself is the garbage collector's concern.
func release(node Node) {
	switch n := node.(type) {
	case *RootNode:
		for _, c := range n.children {
			release(c)
		}
		n.children = nil
	case *ObjectNode:
		for _, f := range n.fixed {
			if f != nil {
				release(f)
			}
		}
		n.fixed = nil
		for _, c := range n.children {
			release(c)
		}
		n.children = nil
	}
}

// resourceBuffer returns the Buffer construct holding the resource list of
// a Name node, or a structural-mismatch error when nameOp is not a Name
// wrapping a Buffer.
func resourceBuffer(nameOp *ObjectNode) (*ObjectNode, error) {
	if nameOp == nil || nameOp.op != OpName {
		return nil, &types.Error{
			Kind: types.ErrKindStructure,
			Msg:  "resource list: node is not a named value",
		}
	}
	buffer, ok := nameOp.FixedArg(1).(*ObjectNode)
	if !ok || buffer.op != OpBuffer {
		return nil, &types.Error{
			Kind: types.ErrKindStructure,
			Msg:  "resource list: named value does not wrap a buffer",
		}
	}
	return buffer, nil
}

// AppendResource inserts a resource record into the resource list of a
// named value node, immediately before the first end tag. When the buffer
// holds no end tag yet the record goes to the tail. The buffer's byte size
// argument is refreshed after every insertion.
func AppendResource(nameOp *ObjectNode, record *DataNode) error {
	buffer, err := resourceBuffer(nameOp)
	if err != nil {
		return err
	}
	return BufferAppendResource(buffer, record)
}

// AppendEndTag places an end tag record at the tail of the resource list of
// a named value node. The buffer must still be empty; a resource list ends
// with exactly one end tag.
func AppendEndTag(nameOp *ObjectNode, record *DataNode) error {
	buffer, err := resourceBuffer(nameOp)
	if err != nil {
		return err
	}
	if record == nil || !record.IsEndTag() {
		return &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  "end tag: record is not an end tag",
		}
	}
	return appendEndTag(buffer, record)
}

// appendEndTag places an end tag record at the tail of a buffer that must
// not already contain resource records.
func appendEndTag(buffer *ObjectNode, record *DataNode) error {
	if len(buffer.children) != 0 {
		return &types.Error{
			Kind: types.ErrKindStructure,
			Msg:  "end tag: buffer already holds resource data",
		}
	}
	if err := attach(record, buffer); err != nil {
		return err
	}
	return updateBufferSize(buffer)
}

// updateBufferSize recomputes the byte length argument of a Buffer from
// its current children.
func updateBufferSize(buffer *ObjectNode) error {
	size, ok := buffer.FixedArg(0).(*DataNode)
	if !ok || size.kind != KindUInt {
		return &types.Error{
			Kind: types.ErrKindStructure,
			Msg:  "buffer: missing byte size argument",
		}
	}
	var total uint64
	for _, c := range buffer.children {
		d, ok := c.(*DataNode)
		if !ok {
			return &types.Error{
				Kind: types.ErrKindStructure,
				Msg:  "buffer: child is not a data node",
			}
		}
		total += uint64(len(d.data))
	}
	size.setUint(total)
	return nil
}
