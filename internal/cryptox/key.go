package cryptox

const (
	// KeySize is the AEAD key length in bytes.
	KeySize = 32
	// NonceSize is the per-encryption nonce length in bytes.
	NonceSize = 12
	// TagSize is the authentication tag length appended to the ciphertext.
	TagSize = 16
	// KeyPadByte fills secrets shorter than KeySize.
	KeyPadByte = '0'
)

// DeriveKey turns secret into a KeySize-byte key: the secret's bytes padded
// on the right with KeyPadByte, then cut to exactly KeySize bytes.
//
// The same secret always yields the same key. The caller owns the returned
// slice and may wipe it.
func DeriveKey(secret string) []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = KeyPadByte
	}
	copy(key, secret)
	return key
}
