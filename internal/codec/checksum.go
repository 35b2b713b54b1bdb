package codec

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// Checksum computes the BLAKE3-256 digest of data, hex encoded. It is
// the integrity gate between the desktop agent and the server: the
// agent declares it inside the info part, the server recomputes it
// over the received data bytes.
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// CompareChecksums reports whether two hex digests are equal. This
// guards against transport corruption, not forgery, so plain
// case-insensitive equality is enough.
func CompareChecksums(a, b string) bool {
	return strings.EqualFold(a, b)
}
