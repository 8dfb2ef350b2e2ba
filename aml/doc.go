// Package aml provides an in-memory object tree for a fixed set of ACPI
// machine language constructs, and a serializer that turns the tree into a
// complete secondary system description table.
//
// The tree is built programmatically through the codegen constructors
// (Device, Scope, NameInteger, ...), mutated through the resource list
// helpers, and finally serialized with RootNode.Serialize. It is not a
// general AML compiler: only the node shapes needed by the table
// generators are supported, and only the structural invariants required
// for correct encoding are enforced.
//
// Ownership is strictly tree shaped. Every node has exactly one owner (its
// parent), constructors attach on success, and DeleteTree releases a
// subtree on the error paths that need it. Nothing in the package is safe
// for concurrent use; a build is single threaded from first node to final
// byte slice.
package aml
