package types

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindInvalidArgument ErrKind = iota // malformed or contradictory caller-supplied values
	ErrKindStructure                      // tree shape does not match the operation's precondition
	ErrKindExhausted                      // name-index space or another bounded resource ran out
	ErrKindNotFound                       // provider has no data for the requested category/token
	ErrKindTopology                       // hierarchy records violate a structural invariant
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so sentinel comparisons via errors.Is work for
// any Error carrying the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrInvalidArgument indicates malformed or contradictory input values.
	ErrInvalidArgument = &Error{Kind: ErrKindInvalidArgument, Msg: "invalid argument"}
	// ErrStructuralMismatch indicates a tree node of the wrong shape for the operation.
	ErrStructuralMismatch = &Error{Kind: ErrKindStructure, Msg: "structural mismatch"}
	// ErrExhausted indicates a bounded index space (e.g. namespace names) ran out.
	ErrExhausted = &Error{Kind: ErrKindExhausted, Msg: "index space exhausted"}
	// ErrNotFound indicates a missing provider category or token.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrTopology indicates hierarchy records that cannot form a valid tree.
	ErrTopology = &Error{Kind: ErrKindTopology, Msg: "topology invariant violation"}
)

// -----------------------------------------------------------------------------
// Tokens & Hardware Description Records
// -----------------------------------------------------------------------------

// Token is an opaque, provider-defined identifier referencing a record
// without exposing its storage location. The zero value is the null token.
type Token uint64

// NullToken marks an absent reference (no parent, no attached record).
const NullToken Token = 0

// NodeFlags is the bit-flag field of a hierarchy record. The bit positions
// mirror the ACPI PPTT processor structure flags.
type NodeFlags uint32

const (
	// FlagPhysicalPackage marks the node as a physical package boundary.
	FlagPhysicalPackage NodeFlags = 1 << 0
	// FlagIDValid marks the numeric processor identifier as meaningful.
	FlagIDValid NodeFlags = 1 << 1
	// FlagLeaf marks the node as a leaf of the hierarchy.
	FlagLeaf NodeFlags = 1 << 3
)

// RoleMask selects the flag bits that distinguish processors from
// containers. ProcessorRole and ContainerRole are the expected values of
// Flags & RoleMask for the two node kinds.
const (
	RoleMask      = FlagPhysicalPackage | FlagIDValid | FlagLeaf
	ProcessorRole = FlagIDValid | FlagLeaf
	ContainerRole = NodeFlags(0)
)

// CoreInterface describes the per-core interface record attached to leaf
// processors. UID is the numeric processor identifier published in the
// namespace.
type CoreInterface struct {
	Token Token
	UID   uint32
}

// HierarchyNode is one flat record of the processor topology. Parent is
// NullToken for the root. CoreToken is set only on leaf processors.
// PowerToken optionally references a low-power-state group.
type HierarchyNode struct {
	Token      Token
	Parent     Token
	CoreToken  Token
	PowerToken Token
	Flags      NodeFlags
}

// GenericAddress locates a hardware register: address space, bit width and
// offset, access size enumerant (0 undefined through 4 qword), and address.
type GenericAddress struct {
	SpaceID    uint8
	BitWidth   uint8
	BitOffset  uint8
	AccessSize uint8
	Address    uint64
}

// EntryKind discriminates the two forms of a low-power-state entry method.
type EntryKind uint8

const (
	// EntryInteger selects an integer entry method.
	EntryInteger EntryKind = iota
	// EntryRegister selects a register-based entry method.
	EntryRegister
)

// EntryMethod is the tagged variant for the state entry method. Exactly one
// of Integer or Register is meaningful, selected by Kind.
type EntryMethod struct {
	Kind     EntryKind
	Integer  uint64
	Register GenericAddress
}

// PowerState is a low-power-state descriptor: timing fields, flag sets, the
// entry method, optional counter registers, and a display name.
type PowerState struct {
	MinResidency         uint32
	WakeLatency          uint32
	Flags                uint32
	ArchFlags            uint32
	ResidencyCounterFreq uint32
	EnableParentState    uint32
	Entry                EntryMethod
	ResidencyCounter     *GenericAddress
	UsageCounter         *GenericAddress
	Name                 string
}

// -----------------------------------------------------------------------------
// Provider contract
// -----------------------------------------------------------------------------

// Provider supplies the read-only hardware description records consumed by
// the topology builder. An entirely absent category and an unknown token
// both surface as errors matching ErrNotFound.
//
// Implementations must return stable data for the duration of a build; the
// builder performs no locking.
type Provider interface {
	// CoreInterfaces returns every per-core interface record, in
	// discovery order.
	CoreInterfaces() ([]CoreInterface, error)

	// CoreInterface resolves a single record by token.
	CoreInterface(tok Token) (CoreInterface, error)

	// HierarchyNodes returns every hierarchy record, in discovery order.
	HierarchyNodes() ([]HierarchyNode, error)

	// References resolves a cross-reference record: the ordered list of
	// tokens a group token refers to.
	References(tok Token) ([]Token, error)

	// PowerState resolves a low-power-state descriptor by token.
	PowerState(tok Token) (PowerState, error)
}
