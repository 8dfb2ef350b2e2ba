package aml

import (
	"fmt"
	"strings"

	"github.com/joshuapare/amlkit/internal/format"
	"github.com/joshuapare/amlkit/pkg/types"
)

// MaxNameIndex bounds the index space of generated role names: a role name
// carries three hexadecimal digits, so indices run from 0 to 4095.
const MaxNameIndex = 1 << (4 * (format.NameSegSize - 1))

const hexDigits = "0123456789ABCDEF"

// RoleName builds a fixed-width namespace name from a one-character role
// tag and an index: the tag followed by three uppercase hex digits
// ("C002", "L01F"). Names are deterministic functions of (lead, index) and
// collision free as long as indices are unique per role within a scope.
func RoleName(lead byte, index uint32) (string, error) {
	if index >= MaxNameIndex {
		return "", &types.Error{
			Kind: types.ErrKindExhausted,
			Msg:  fmt.Sprintf("role name %c: index %d exceeds %d", lead, index, MaxNameIndex-1),
		}
	}
	if !isLeadChar(lead) {
		return "", &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("role name: invalid lead char %q", lead),
		}
	}
	var b [format.NameSegSize]byte
	b[0] = lead
	for i := 0; i < format.NameSegSize-1; i++ {
		b[format.NameSegSize-1-i] = hexDigits[(index>>(4*i))&0xF]
	}
	return string(b[:]), nil
}

func isLeadChar(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isLeadChar(c) || (c >= '0' && c <= '9')
}

// padNameSeg validates a single segment and pads it with '_' to the fixed
// four-character width.
func padNameSeg(seg string) ([format.NameSegSize]byte, error) {
	var out [format.NameSegSize]byte
	if len(seg) == 0 || len(seg) > format.NameSegSize {
		return out, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("name segment %q: must be 1 to %d chars", seg, format.NameSegSize),
		}
	}
	if !isLeadChar(seg[0]) {
		return out, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("name segment %q: lead char must be A-Z or underscore", seg),
		}
	}
	for i := 1; i < len(seg); i++ {
		if !isNameChar(seg[i]) {
			return out, &types.Error{
				Kind: types.ErrKindInvalidArgument,
				Msg:  fmt.Sprintf("name segment %q: invalid char at %d", seg, i),
			}
		}
	}
	copy(out[:], seg)
	for i := len(seg); i < format.NameSegSize; i++ {
		out[i] = '_'
	}
	return out, nil
}

// encodeNameString converts a textual name path ("_SB_", "\_SB_.L003",
// "^DEV0.REG0") to its encoded form: optional root or parent prefixes,
// then a null, single, dual, or multi segment sequence.
func encodeNameString(path string) ([]byte, error) {
	var prefix []byte
	for len(path) > 0 {
		switch path[0] {
		case format.RootChar:
			if len(prefix) > 0 {
				return nil, &types.Error{
					Kind: types.ErrKindInvalidArgument,
					Msg:  fmt.Sprintf("name path %q: root char not at start", path),
				}
			}
			prefix = append(prefix, format.RootChar)
			path = path[1:]
			continue
		case format.ParentPrefixChar:
			if len(prefix) > 0 && prefix[0] == format.RootChar {
				return nil, &types.Error{
					Kind: types.ErrKindInvalidArgument,
					Msg:  "name path: parent prefix after root char",
				}
			}
			prefix = append(prefix, format.ParentPrefixChar)
			path = path[1:]
			continue
		}
		break
	}

	var segs [][format.NameSegSize]byte
	if path != "" {
		for _, part := range strings.Split(path, ".") {
			seg, err := padNameSeg(part)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		}
	}

	out := prefix
	switch n := len(segs); {
	case n == 0:
		out = append(out, format.NullName)
	case n == 1:
		out = append(out, segs[0][:]...)
	case n == 2:
		out = append(out, format.DualNamePrefix)
		out = append(out, segs[0][:]...)
		out = append(out, segs[1][:]...)
	case n <= 255:
		out = append(out, format.MultiNamePrefix, byte(n))
		for _, seg := range segs {
			out = append(out, seg[:]...)
		}
	default:
		return nil, &types.Error{
			Kind: types.ErrKindInvalidArgument,
			Msg:  fmt.Sprintf("name path: %d segments exceed multi-name limit", n),
		}
	}
	return out, nil
}
