package vc

import (
	"crypto/sha256"
	"math/big"
	"strconv"
)

// EncodeValue computes the encoded form of a credential attribute value.
// 32-bit integers encode as themselves, everything else as the decimal
// form of its SHA-256 digest. This is the encoding verifiers across the
// Aries ecosystem agree on.
func EncodeValue(raw string) string {
	if i, err := strconv.ParseInt(raw, 10, 32); err == nil {
		return strconv.FormatInt(i, 10)
	}
	digest := sha256.Sum256([]byte(raw))
	return new(big.Int).SetBytes(digest[:]).String()
}
