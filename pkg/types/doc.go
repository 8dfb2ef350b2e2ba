// Package types defines the public vocabulary of amlkit: the error
// taxonomy shared by every package, the opaque tokens used to reference
// hardware description records, the record structures themselves, and the
// Provider interface the topology generator consumes.
//
// Keeping these in a leaf package lets provider implementations and
// consumers depend on the contract without importing the tree model or the
// generator.
package types
