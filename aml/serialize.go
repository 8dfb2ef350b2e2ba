package aml

import (
	"fmt"

	"github.com/joshuapare/amlkit/internal/format"
	"github.com/joshuapare/amlkit/pkg/types"
)

// CreatorID identifies this encoder in the table header.
const CreatorID = "AMLK"

// CreatorRevision is the encoder revision stamped into the table header.
const CreatorRevision uint32 = 0x00010000

// Serialize encodes the whole tree into a finished table: the 36-byte
// header followed by the term list, with the header checksum fixed up
// last. The returned buffer is owned by the caller; the tree is left
// untouched and can be serialized again.
func (r *RootNode) Serialize() ([]byte, error) {
	body := 0
	for _, c := range r.children {
		n, err := nodeSize(c)
		if err != nil {
			return nil, err
		}
		body += n
	}

	buf := make([]byte, format.SdtHeaderSize+body)
	r.writeHeader(buf)

	off := format.SdtHeaderSize
	for _, c := range r.children {
		n, err := writeNode(buf, off, c)
		if err != nil {
			return nil, err
		}
		off += n
	}
	if off != len(buf) {
		return nil, &types.Error{
			Kind: types.ErrKindStructure,
			Msg:  fmt.Sprintf("serialize: wrote %d of %d bytes", off, len(buf)),
		}
	}

	buf[format.SdtChecksumOffset] = format.Checksum8(buf)
	return buf, nil
}

func (r *RootNode) writeHeader(buf []byte) {
	copy(buf[format.SdtSignatureOffset:], r.signature)
	format.PutU32(buf, format.SdtLengthOffset, uint32(len(buf)))
	buf[format.SdtRevisionOffset] = format.SdtRevision

	padCopy(buf[format.SdtOemIDOffset:format.SdtOemIDOffset+format.SdtOemIDSize], r.oemID)
	padCopy(buf[format.SdtOemTableIDOffset:format.SdtOemTableIDOffset+format.SdtOemTableIDSize], r.oemTableID)
	format.PutU32(buf, format.SdtOemRevisionOffset, r.oemRevision)
	copy(buf[format.SdtCreatorIDOffset:], CreatorID)
	format.PutU32(buf, format.SdtCreatorRevOffset, CreatorRevision)
}

func padCopy(dst []byte, s string) {
	for i := range dst {
		dst[i] = ' '
	}
	copy(dst, s)
}

// nodeSize returns the number of bytes node occupies in the encoded
// stream.
func nodeSize(node Node) (int, error) {
	switch n := node.(type) {
	case *DataNode:
		return dataSize(n), nil
	case *ObjectNode:
		return objectSize(n)
	default:
		return 0, &types.Error{
			Kind: types.ErrKindStructure,
			Msg:  fmt.Sprintf("serialize: unexpected node %T", node),
		}
	}
}

func dataSize(n *DataNode) int {
	switch n.kind {
	case KindString:
		return 1 + len(n.data) + 1 // prefix, bytes, terminator
	case KindUInt:
		return uintSize(n.value)
	default:
		return len(n.data)
	}
}

func uintSize(v uint64) int {
	switch {
	case v <= 1:
		return 1
	case v <= 0xFF:
		return 2
	case v <= 0xFFFF:
		return 3
	case v <= 0xFFFFFFFF:
		return 5
	default:
		return 9
	}
}

// bodySize sums the fixed arguments and variable children of a construct,
// including the element count byte when the opcode carries one.
func bodySize(n *ObjectNode) (int, error) {
	attr, ok := opAttrs[n.op]
	if !ok {
		return 0, &types.Error{
			Kind: types.ErrKindStructure,
			Msg:  fmt.Sprintf("serialize: unknown opcode %#x", n.op.Primary),
		}
	}
	total := 0
	if attr.hasElemCount {
		if len(n.children) > format.MaxPackageElements {
			return 0, &types.Error{
				Kind: types.ErrKindInvalidArgument,
				Msg:  fmt.Sprintf("serialize: package holds %d elements, limit %d", len(n.children), format.MaxPackageElements),
			}
		}
		total++
	}
	for _, f := range n.fixed {
		if f == nil {
			return 0, &types.Error{
				Kind: types.ErrKindStructure,
				Msg:  fmt.Sprintf("serialize: construct %#x has an empty argument slot", n.op.Primary),
			}
		}
		s, err := nodeSize(f)
		if err != nil {
			return 0, err
		}
		total += s
	}
	for _, c := range n.children {
		s, err := nodeSize(c)
		if err != nil {
			return 0, err
		}
		total += s
	}
	return total, nil
}

func objectSize(n *ObjectNode) (int, error) {
	body, err := bodySize(n)
	if err != nil {
		return 0, err
	}
	size := n.op.size() + body
	if opAttrs[n.op].hasPkgLen {
		pl, err := format.PkgLengthSize(body)
		if err != nil {
			return 0, err
		}
		size += pl
	}
	return size, nil
}

func writeNode(buf []byte, off int, node Node) (int, error) {
	switch n := node.(type) {
	case *DataNode:
		return writeData(buf, off, n), nil
	case *ObjectNode:
		return writeObject(buf, off, n)
	default:
		return 0, &types.Error{
			Kind: types.ErrKindStructure,
			Msg:  fmt.Sprintf("serialize: unexpected node %T", node),
		}
	}
}

func writeData(buf []byte, off int, n *DataNode) int {
	switch n.kind {
	case KindString:
		buf[off] = format.StringPrefix
		copy(buf[off+1:], n.data)
		buf[off+1+len(n.data)] = 0x00
		return 1 + len(n.data) + 1
	case KindUInt:
		return writeUint(buf, off, n.value)
	default:
		copy(buf[off:], n.data)
		return len(n.data)
	}
}

func writeUint(buf []byte, off int, v uint64) int {
	switch {
	case v == 0:
		buf[off] = format.ZeroOp
		return 1
	case v == 1:
		buf[off] = format.OneOp
		return 1
	case v <= 0xFF:
		buf[off] = format.BytePrefix
		buf[off+1] = byte(v)
		return 2
	case v <= 0xFFFF:
		buf[off] = format.WordPrefix
		format.PutU16(buf, off+1, uint16(v))
		return 3
	case v <= 0xFFFFFFFF:
		buf[off] = format.DWordPrefix
		format.PutU32(buf, off+1, uint32(v))
		return 5
	default:
		buf[off] = format.QWordPrefix
		format.PutU64(buf, off+1, v)
		return 9
	}
}

func writeObject(buf []byte, off int, n *ObjectNode) (int, error) {
	start := off
	buf[off] = n.op.Primary
	off++
	if n.op.Primary == format.ExtOpPrefix {
		buf[off] = n.op.Extended
		off++
	}

	attr := opAttrs[n.op]
	body, err := bodySize(n)
	if err != nil {
		return 0, err
	}
	if attr.hasPkgLen {
		written, err := format.PutPkgLength(buf, off, body)
		if err != nil {
			return 0, err
		}
		off += written
	}
	if attr.hasElemCount {
		buf[off] = byte(len(n.children))
		off++
	}
	for _, f := range n.fixed {
		written, err := writeNode(buf, off, f)
		if err != nil {
			return 0, err
		}
		off += written
	}
	for _, c := range n.children {
		written, err := writeNode(buf, off, c)
		if err != nil {
			return 0, err
		}
		off += written
	}
	return off - start, nil
}
