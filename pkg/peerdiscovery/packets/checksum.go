package packets

// Checksum returns the Internet checksum (RFC 791/792) of data.
//
// Words are summed big-endian. A trailing odd byte is treated as the high
// byte of a zero-padded word. Empty input yields 0.
func Checksum(data []byte) uint16 {
	if len(data) == 0 {
		return 0
	}

	sum := sum16(data)
	return ^uint16(sum)
}

// sum16 returns the folded one's-complement sum of data without the final
// complement.
func sum16(data []byte) uint32 {
	// wide enough that no carry is lost on any slice length
	var sum uint64

	n := len(data)
	for i := 0; i+1 < n; i += 2 {
		sum += uint64(data[i])<<8 | uint64(data[i+1])
	}

	if n%2 == 1 {
		sum += uint64(data[n-1]) << 8
	}

	for sum>>16 != 0 {
		sum = (sum & 0xffff) + (sum >> 16)
	}

	return uint32(sum)
}

// Verify reports whether data carries a correct checksum, i.e. whether the
// folded sum over the whole buffer is all ones.
func Verify(data []byte) bool {
	return uint16(sum16(data)) == 0xffff
}
