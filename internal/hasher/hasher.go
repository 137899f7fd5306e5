package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"
)

// ShortLen is the number of hex characters used in output file names.
const ShortLen = 8

// ContentHash returns the hex-encoded xxHash64 of data (16 chars).
func ContentHash(data []byte) string {
	return encode(xxhash.Sum64(data))
}

// ContentHashReader computes the same digest as ContentHash, streaming.
func ContentHashReader(r io.Reader) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return encode(h.Sum64()), nil
}

// Short truncates a digest for use in file names.
func Short(digest string) string {
	if len(digest) > ShortLen {
		return digest[:ShortLen]
	}
	return digest
}

func encode(sum uint64) string {
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, sum))
}
