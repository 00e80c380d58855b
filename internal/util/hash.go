// ABOUTME: Keyed 64-bit content hashing for checksums and cache keys
// ABOUTME: Uses HighwayHash with a fixed key so values are stable across processes
package util

import (
	"fmt"

	"github.com/minio/highwayhash"
)

var hashKey = []byte("docqa-highwayhash-key-0123456789")

// Hash64 returns the HighwayHash-64 of data
func Hash64(data []byte) (uint64, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write(data); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// HashHex returns Hash64 formatted as 16 hex digits
func HashHex(data []byte) (string, error) {
	sum, err := Hash64(data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", sum), nil
}
