package common

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Use it to drop key material and typed secrets from memory after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
