package review

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// IDs are ULIDs: 48 bits of millisecond timestamp followed by 80 bits of
// randomness, Crockford base32 encoded to 26 characters. The first two
// random bytes carry a per-millisecond sequence so IDs minted in the same
// millisecond still sort in creation order.

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var (
	idMu    sync.Mutex
	idLast  uint64
	idSeq   uint16
	idClock = func() time.Time { return time.Now() }
)

// NewID returns a fresh document or comment ID.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()

	ms := uint64(idClock().UnixMilli())
	if ms == idLast {
		idSeq++
	} else {
		idLast = ms
		idSeq = 0
	}

	var b [16]byte
	for i := 0; i < 6; i++ {
		b[i] = byte(ms >> (40 - 8*i))
	}
	rand.Read(b[8:])
	binary.BigEndian.PutUint16(b[6:8], idSeq)
	return encodeID(b)
}

// encodeID writes 128 bits as 26 base32 digits, most significant first. The
// leading digit only carries the top 3 bits.
func encodeID(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[:8])
	lo := binary.BigEndian.Uint64(b[8:])

	var out [26]byte
	for i := 25; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
