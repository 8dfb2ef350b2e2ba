package format

// Checksum8 returns the byte that makes the modular sum of buf zero. The
// caller stores the result at the header checksum offset, which must be
// zero while summing.
func Checksum8(buf []byte) byte {
	var sum byte
	for _, b := range buf {
		sum += b
	}
	return byte(-sum)
}
