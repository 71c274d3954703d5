package bitconv

// BitAt returns the bit at index i of b, counting from the most significant
// bit of b[0].
func BitAt(b []byte, i int) uint8 {
	return (b[i/8] >> uint(7-i%8)) & 1
}

// SetLSB replaces the least significant bit of c with bit.
func SetLSB(c uint8, bit uint8) uint8 {
	return c&0xFE | bit&1
}

func BytesToBools(b []byte) []bool {
	bits := make([]bool, 0, len(b)*8)
	for i := range len(b) * 8 {
		bits = append(bits, BitAt(b, i) == 1)
	}
	return bits
}

// BoolsToBytes packs bits MSB-first. A trailing partial byte is zero padded.
func BoolsToBytes(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, v := range bits {
		if v {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}
