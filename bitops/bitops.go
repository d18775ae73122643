// Package bitops contains single bit helpers for channel bytes
package bitops

import "fmt"

// GetBit reports whether bit n (0 is the LSB, 7 the MSB) of b is set.
// It panics if n is out of range.
func GetBit(b byte, n uint) bool {
	if n > 7 {
		panic(fmt.Sprintf("bitops: GetBit called with bit index %d", n))
	}
	return (b>>n)&1 == 1
}

// SetBit returns b with bit n set to value. It panics if n is out of range.
func SetBit(b byte, n uint, value bool) byte {
	if n > 7 {
		panic(fmt.Sprintf("bitops: SetBit called with bit index %d", n))
	}
	if value {
		return b | 1<<n
	}
	return b &^ (1 << n)
}

// SetLSB returns b with its least significant bit set to value.
func SetLSB(b byte, value bool) byte {
	if value {
		return b | 0b0000_0001
	}
	return b & 0b1111_1110
}

// GetLSB reports whether b is odd.
func GetLSB(b byte) bool {
	return b%2 != 0
}

// ToBitBuffer expands b into its 8 bits, bit 0 first.
func ToBitBuffer(b byte) []bool {
	bits := make([]bool, 0, 8)
	for i := uint(0); i <= 7; i++ {
		bits = append(bits, GetBit(b, i))
	}
	return bits
}
