package event

// Universal is the 32-byte chain-agnostic form of a native address. Chains
// with 20-byte addresses occupy the low-order 32 bytes; the 12 leading bytes
// are always zero. Downstream consumers depend only on the byte layout, so
// the padding must be bit-exact.
type Universal [32]byte

// Universal returns the canonical 32-byte form of the address: bytes 0-11
// zero, bytes 12-31 the native address with byte order preserved. The mapping
// is pure, total and injective.
func (a Address) Universal() Universal {
	var u Universal
	copy(u[12:], a[:])
	return u
}

// Native returns the 20-byte address embedded in the universal form and
// whether the leading 12 bytes are zero. A false result means the value did
// not originate from a 20-byte native address.
func (u Universal) Native() (Address, bool) {
	for _, b := range u[:12] {
		if b != 0 {
			return Address{}, false
		}
	}
	var a Address
	copy(a[:], u[12:])
	return a, true
}
