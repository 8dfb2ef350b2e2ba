// Package format houses the byte-level layout of the ACPI machine language
// (AML) constructs and resource descriptor records produced by this module.
// The goal is to keep every opcode, field offset, and record length in one
// place, independent from the tree model, so higher-level packages can
// assemble and serialize structures without scattering magic numbers.
package format

// AML opcodes and encoding prefixes used by the tree model.
//
// Only the fixed set of constructs this module generates is listed here:
// this is not an opcode table for a full AML interpreter.
const (
	// ZeroOp and OneOp encode the integer constants 0 and 1 in one byte.
	ZeroOp = 0x00
	OneOp  = 0x01

	// Integer prefixes. The prefix byte is followed by the value in
	// little-endian form, using the smallest width that fits.
	BytePrefix  = 0x0A // + 1 byte
	WordPrefix  = 0x0B // + 2 bytes
	DWordPrefix = 0x0C // + 4 bytes
	QWordPrefix = 0x0E // + 8 bytes

	// StringPrefix starts an ASCII string terminated by a NUL byte.
	StringPrefix = 0x0D

	NameOp    = 0x08 // Name (name, object)
	ScopeOp   = 0x10 // Scope (name) { ... }, carries a PkgLength
	BufferOp  = 0x11 // Buffer (size) { bytes }, carries a PkgLength
	PackageOp = 0x12 // Package () { elements }, carries a PkgLength
	MethodOp  = 0x14 // Method (name, flags) { ... }, carries a PkgLength
	ReturnOp  = 0xA4 // Return (arg)

	// ExtOpPrefix introduces two-byte opcodes. DeviceOp is the only
	// extended opcode generated here.
	ExtOpPrefix = 0x5B
	DeviceOp    = 0x82 // 0x5B 0x82, carries a PkgLength
)

// Name path encoding.
const (
	// NameSegSize is the fixed width of a namespace name segment.
	NameSegSize = 4

	RootChar         = '\\' // absolute path prefix
	ParentPrefixChar = '^'  // one level up per occurrence
	DualNamePrefix   = 0x2E // exactly two segments follow
	MultiNamePrefix  = 0x2F // count byte + segments follow
	NullName         = 0x00 // empty name path
)

// Method flag field layout (one byte following the method name).
const (
	MethodArgCountMask   = 0x07 // bits 0-2
	MethodSerializeFlag  = 0x08 // bit 3
	MethodSyncLevelShift = 4    // bits 4-7
	MethodMaxSyncLevel   = 0x0F
	MethodMaxArgCount    = 7
)

// PkgLength encoding limits. The leading byte stores the count of extra
// length bytes in its top two bits; the encoded value includes the length
// field itself.
const (
	PkgLenMax1 = 0x3F      // 6 bits
	PkgLenMax2 = 0xFFF     // 4 + 8 bits
	PkgLenMax3 = 0xFFFFF   // 4 + 16 bits
	PkgLenMax4 = 0xFFFFFFF // 4 + 24 bits
)

// MaxPackageElements is the limit of the one-byte NumElements field of a
// PackageOp.
const MaxPackageElements = 255

// Resource descriptor item headers.
//
// Small descriptors pack type and length into a single byte:
//
//	bit  7     0 (small item)
//	bits 6..3  item name
//	bits 2..0  payload length
//
// Large descriptors use a three-byte header:
//
//	0x00  1  0x80 | item name
//	0x01  2  payload length (little-endian, excludes the header)
const (
	LargeItemFlag   = 0x80
	LargeHeaderSize = 3
	SmallHeaderSize = 1

	// Large item names, already combined with LargeItemFlag.
	RegisterDescName     = 0x82 // generic register descriptor
	DWordSpaceDescName   = 0x87 // 32-bit address space descriptor
	WordSpaceDescName    = 0x88 // 16-bit address space descriptor
	ExtInterruptDescName = 0x89 // extended interrupt descriptor
	QWordSpaceDescName   = 0x8A // 64-bit address space descriptor

	// EndTagDesc is the complete first byte of the end tag record:
	// small item, name 0x0F, payload length 1.
	EndTagDesc   = 0x79
	EndTagLength = 2 // descriptor byte + checksum byte
)

// Address space descriptor field offsets, relative to the start of the
// record (including the large header). The five address fields follow the
// flags block back to back; their width depends on the record form.
//
//	0x00  1  descriptor name
//	0x01  2  payload length
//	0x03  1  resource type (0 memory, 1 I/O, 2 bus number)
//	0x04  1  general flags
//	0x05  1  type specific flags
//	0x06  n  granularity
//	      n  range minimum
//	      n  range maximum
//	      n  translation offset
//	      n  range length
const (
	SpaceResTypeOffset   = 0x03
	SpaceGenFlagOffset   = 0x04
	SpaceTypeFlagOffset  = 0x05
	SpaceAddrBlockOffset = 0x06

	SpaceAddrFieldCount = 5

	WordSpaceDescLength  = 0x0D // payload: 3 + 5*2
	DWordSpaceDescLength = 0x17 // payload: 3 + 5*4
	QWordSpaceDescLength = 0x2B // payload: 3 + 5*8

	WordSpaceRecordSize  = LargeHeaderSize + WordSpaceDescLength
	DWordSpaceRecordSize = LargeHeaderSize + DWordSpaceDescLength
	QWordSpaceRecordSize = LargeHeaderSize + QWordSpaceDescLength
)

// Address space resource types.
const (
	SpaceTypeMemory = 0
	SpaceTypeIO     = 1
	SpaceTypeBus    = 2
)

// General flag bits of an address space descriptor.
const (
	SpaceFlagSubDecode = 1 << 1 // set for subtractive decode
	SpaceFlagMinFixed  = 1 << 2
	SpaceFlagMaxFixed  = 1 << 3
)

// I/O range type-specific flag packing.
const (
	IOFlagIsaRangeMask = 0x03
	IOFlagNonStatic    = 1 << 4 // translation type: set when not static
	IOFlagSparse       = 1 << 5 // translation density: set when sparse
	IOMaxIsaRanges     = 3
)

// Memory range type-specific flag packing.
const (
	MemFlagReadWrite      = 1 << 0
	MemFlagCacheShift     = 1
	MemFlagRangeTypeShift = 3
	MemFlagNonStatic      = 1 << 5
	MemMaxCacheable       = 3
	MemMaxRangeType       = 3
)

// Extended interrupt descriptor layout.
//
//	0x00  1  descriptor name (0x89)
//	0x01  2  payload length: 2 + 4*count
//	0x03  1  interrupt vector flags
//	0x04  1  interrupt table length (count)
//	0x05  4n interrupt numbers, little-endian
const (
	IntFlagsOffset = 0x03
	IntCountOffset = 0x04
	IntListOffset  = 0x05

	IntFlagConsumer  = 1 << 0
	IntFlagEdge      = 1 << 1
	IntFlagActiveLow = 1 << 2
	IntFlagShared    = 1 << 3

	IntMaxCount = 255
)

// Generic register descriptor layout.
//
//	0x00  1  descriptor name (0x82)
//	0x01  2  payload length (0x0C)
//	0x03  1  address space ID
//	0x04  1  register bit width
//	0x05  1  register bit offset
//	0x06  1  access size
//	0x07  8  register address, little-endian
const (
	RegisterSpaceIDOffset    = 0x03
	RegisterBitWidthOffset   = 0x04
	RegisterBitOffsetOffset  = 0x05
	RegisterAccessSizeOffset = 0x06
	RegisterAddressOffset    = 0x07

	RegisterDescLength = 0x0C
	RegisterRecordSize = LargeHeaderSize + RegisterDescLength

	// RegisterMaxAccessSize bounds the access size enumerant
	// (0 undefined, 1 byte, 2 word, 3 dword, 4 qword).
	RegisterMaxAccessSize = 4
)

// System description table header layout (36 bytes, prepended by the
// serializer).
//
//	0x00  4  signature
//	0x04  4  table length, little-endian, includes the header
//	0x08  1  revision
//	0x09  1  checksum (mod-256 sum of the whole table is zero)
//	0x0A  6  OEM ID, space padded
//	0x10  8  OEM table ID, space padded
//	0x18  4  OEM revision
//	0x1C  4  creator ID
//	0x20  4  creator revision
const (
	SdtSignatureOffset   = 0x00
	SdtLengthOffset      = 0x04
	SdtRevisionOffset    = 0x08
	SdtChecksumOffset    = 0x09
	SdtOemIDOffset       = 0x0A
	SdtOemTableIDOffset  = 0x10
	SdtOemRevisionOffset = 0x18
	SdtCreatorIDOffset   = 0x1C
	SdtCreatorRevOffset  = 0x20

	SdtHeaderSize = 36

	SdtSignatureSize  = 4
	SdtOemIDSize      = 6
	SdtOemTableIDSize = 8
	SdtCreatorIDSize  = 4

	// SdtRevision 2 selects 64-bit integer arithmetic in the encoded
	// block, which is what the integer codegen assumes.
	SdtRevision = 2
)
