// Package checksum implements the 16-bit one's-complement Internet
// checksum shared by the IPv4 header and the TCP segment (RFC 1071).
package checksum

// Sum adds the bytes of b to the running accumulator acc, consuming
// them as consecutive 16-bit big-endian words. A trailing odd byte
// counts as the high byte of a word whose low byte is zero. Carries are
// left unfolded, so sums may be chained across several ranges as long
// as every range before the last has even length.
func Sum(acc uint32, b []byte) uint32 {
	for len(b) >= 2 {
		acc += uint32(b[0])<<8 | uint32(b[1])
		b = b[2:]
	}
	if len(b) == 1 {
		acc += uint32(b[0]) << 8
	}
	return acc
}

// Finish folds the carries of acc back into the low 16 bits and
// returns their one's complement. Two folds always suffice: the first
// leaves at most one carry bit, the second absorbs it.
func Finish(acc uint32) uint16 {
	acc = acc>>16 + acc&0xffff
	acc += acc >> 16
	return ^uint16(acc)
}

// Checksum returns the Internet checksum of b. The empty range yields
// 0xffff.
func Checksum(b []byte) uint16 {
	return Finish(Sum(0, b))
}
