// Package resource builds encoded resource descriptor records: address
// space descriptors in three widths, extended interrupt descriptors,
// generic register descriptors, and the end tag.
//
// Every constructor validates its inputs first, then allocates a detached
// data node holding the finished record bytes. When a Name node is passed
// the record is additionally appended to that node's resource list, before
// the list's end tag; the same node is returned either way. A failed append
// tears the freshly built record down, so no constructor ever leaks a
// half-linked node.
package resource
