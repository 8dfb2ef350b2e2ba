package format

import "fmt"

// PkgLength encoding.
//
// The PkgLength field prefixes the body of Scope, Device, Method, Buffer,
// and Package constructs. The encoded value counts the length field itself
// plus everything that follows it, up to the end of the construct. The lead
// byte carries the count of extra bytes in bits 7..6:
//
//	1 byte:  bits 5..0 hold the value (<= 0x3F)
//	2 bytes: lead bits 3..0 are the low nibble, next byte bits 11..4
//	3 bytes: as above plus one more byte, up to 20 bits
//	4 bytes: as above plus one more byte, up to 28 bits

// PkgLengthSize returns the number of bytes needed to encode a PkgLength
// covering content bytes of construct body. The returned size accounts for
// the length field counting itself.
func PkgLengthSize(content int) (int, error) {
	switch {
	case content < 0:
		return 0, fmt.Errorf("pkglength: negative content size %d: %w", content, ErrFieldRange)
	case content+1 <= PkgLenMax1:
		return 1, nil
	case content+2 <= PkgLenMax2:
		return 2, nil
	case content+3 <= PkgLenMax3:
		return 3, nil
	case content+4 <= PkgLenMax4:
		return 4, nil
	default:
		return 0, fmt.Errorf("pkglength: content size %d: %w", content, ErrPkgLength)
	}
}

// PutPkgLength encodes a PkgLength covering content body bytes at b[off:],
// returning the number of bytes written.
func PutPkgLength(b []byte, off int, content int) (int, error) {
	size, err := PkgLengthSize(content)
	if err != nil {
		return 0, err
	}
	total := uint32(content + size)
	switch size {
	case 1:
		b[off] = byte(total)
	case 2:
		b[off] = 0x40 | byte(total&0x0F)
		b[off+1] = byte(total >> 4)
	case 3:
		b[off] = 0x80 | byte(total&0x0F)
		b[off+1] = byte(total >> 4)
		b[off+2] = byte(total >> 12)
	case 4:
		b[off] = 0xC0 | byte(total&0x0F)
		b[off+1] = byte(total >> 4)
		b[off+2] = byte(total >> 12)
		b[off+3] = byte(total >> 20)
	}
	return size, nil
}
