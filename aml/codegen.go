package aml

import (
	"fmt"

	"github.com/joshuapare/amlkit/internal/format"
	"github.com/joshuapare/amlkit/pkg/types"
)

// Codegen constructors for the fixed set of well-known node shapes. Every
// constructor returns the created construct; when parent is non-nil the
// construct is attached to it before returning, and torn down again if the
// attachment fails.

// Scope creates a Scope construct ("Scope (name) { }").
func Scope(name string, parent Node) (*ObjectNode, error) {
	nameNode, err := newNameStringNode(name)
	if err != nil {
		return nil, err
	}
	node := newObjectNode(OpScope, nameNode)
	return node, attachOrDelete(node, parent)
}

// Device creates a Device construct ("Device (name) { }").
func Device(name string, parent Node) (*ObjectNode, error) {
	nameNode, err := newNameStringNode(name)
	if err != nil {
		return nil, err
	}
	node := newObjectNode(OpDevice, nameNode)
	return node, attachOrDelete(node, parent)
}

// NameInteger creates a named integer value ("Name (name, value)").
func NameInteger(name string, value uint64, parent Node) (*ObjectNode, error) {
	nameNode, err := newNameStringNode(name)
	if err != nil {
		return nil, err
	}
	node := newObjectNode(OpName, nameNode, newUintNode(value))
	return node, attachOrDelete(node, parent)
}

// NameString creates a named string value ("Name (name, "value")").
func NameString(name, value string, parent Node) (*ObjectNode, error) {
	nameNode, err := newNameStringNode(name)
	if err != nil {
		return nil, err
	}
	valueNode, err := newStringNode(value)
	if err != nil {
		return nil, err
	}
	node := newObjectNode(OpName, nameNode, valueNode)
	return node, attachOrDelete(node, parent)
}

// MethodReturnNameString creates a method whose whole body returns a named
// reference ("Method (name, argCount) { Return (target) }").
func MethodReturnNameString(name, target string, argCount uint8, serialized bool, syncLevel uint8, parent Node) (*ObjectNode, error) {
	if argCount > format.MethodMaxArgCount {
		return nil, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("method %s: argument count %d exceeds %d", name, argCount, format.MethodMaxArgCount),
		}
	}
	if syncLevel > format.MethodMaxSyncLevel {
		return nil, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("method %s: sync level %d exceeds %d", name, syncLevel, format.MethodMaxSyncLevel),
		}
	}
	nameNode, err := newNameStringNode(name)
	if err != nil {
		return nil, err
	}
	targetNode, err := newNameStringNode(target)
	if err != nil {
		return nil, err
	}

	flags := argCount & format.MethodArgCountMask
	if serialized {
		flags |= format.MethodSerializeFlag
	}
	flags |= syncLevel << format.MethodSyncLevelShift

	method := newObjectNode(OpMethod, nameNode, newByteNode(flags))
	ret := newObjectNode(OpReturn, targetNode)
	if err := attach(ret, method); err != nil {
		DeleteTree(method)
		return nil, err
	}
	return method, attachOrDelete(method, parent)
}

// Package creates a bare Package construct, usable as an element of
// another package or as the value of a named package.
func Package(parent Node) (*ObjectNode, error) {
	node := newObjectNode(OpPackage)
	return node, attachOrDelete(node, parent)
}

// NamePackage creates a named, initially empty package
// ("Name (name, Package () {})") and returns the inner Package construct,
// ready for PackageAppend calls. The wrapping Name node is reachable as
// the package's parent.
func NamePackage(name string, parent Node) (*ObjectNode, error) {
	nameNode, err := newNameStringNode(name)
	if err != nil {
		return nil, err
	}
	pkg := newObjectNode(OpPackage)
	node := newObjectNode(OpName, nameNode, pkg)
	if err := attachOrDelete(node, parent); err != nil {
		return nil, err
	}
	return pkg, nil
}

// PackageAppendInteger adds an integer element to a package.
func PackageAppendInteger(pkg *ObjectNode, value uint64) error {
	if err := checkPackage(pkg); err != nil {
		return err
	}
	return attach(newUintNode(value), pkg)
}

// PackageAppendString adds a string element to a package.
func PackageAppendString(pkg *ObjectNode, value string) error {
	if err := checkPackage(pkg); err != nil {
		return err
	}
	node, err := newStringNode(value)
	if err != nil {
		return err
	}
	return attach(node, pkg)
}

func checkPackage(pkg *ObjectNode) error {
	if pkg == nil || pkg.op != OpPackage {
		return &types.Error{
			Kind: types.ErrKindStructure,
			Msg:  "package append: node is not a package",
		}
	}
	return nil
}

// NameResourceTemplate creates a named resource list
// ("Name (name, ResourceTemplate () {})"): a Name wrapping a Buffer that
// initially holds exactly one end tag record. Records are inserted before
// the end tag with AppendResource.
func NameResourceTemplate(name string, parent Node) (*ObjectNode, error) {
	nameNode, err := newNameStringNode(name)
	if err != nil {
		return nil, err
	}
	buffer, err := newResourceBuffer()
	if err != nil {
		return nil, err
	}
	node := newObjectNode(OpName, nameNode, buffer)
	return node, attachOrDelete(node, parent)
}

// ResourceTemplateBuffer creates a bare resource list buffer holding one
// end tag record, for use as a package element (register references inside
// state packages take this form).
func ResourceTemplateBuffer(parent Node) (*ObjectNode, error) {
	buffer, err := newResourceBuffer()
	if err != nil {
		return nil, err
	}
	return buffer, attachOrDelete(buffer, parent)
}

func newResourceBuffer() (*ObjectNode, error) {
	buffer := newObjectNode(OpBuffer, newUintNode(0))
	endTag, err := NewResourceData([]byte{format.EndTagDesc, 0x00})
	if err != nil {
		return nil, err
	}
	if err := appendEndTag(buffer, endTag); err != nil {
		DeleteTree(buffer)
		return nil, err
	}
	return buffer, nil
}

// BufferAppendResource inserts a record into a bare resource list buffer,
// before its end tag.
func BufferAppendResource(buffer *ObjectNode, record *DataNode) error {
	if buffer == nil || buffer.op != OpBuffer {
		return &types.Error{
			Kind: types.ErrKindStructure,
			Msg:  "buffer append: node is not a buffer",
		}
	}
	if record == nil || record.kind != KindResourceData {
		return &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  "buffer append: record is not resource data",
		}
	}
	pos := len(buffer.children)
	for i, c := range buffer.children {
		if d, ok := c.(*DataNode); ok && d.IsEndTag() {
			pos = i
			break
		}
	}
	if err := insertChild(record, buffer, pos); err != nil {
		return err
	}
	return updateBufferSize(buffer)
}

func attachOrDelete(node *ObjectNode, parent Node) error {
	if parent == nil {
		return nil
	}
	if err := attach(node, parent); err != nil {
		DeleteTree(node)
		return err
	}
	return nil
}
