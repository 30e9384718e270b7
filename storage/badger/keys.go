package badger

import (
	"encoding/binary"

	"github.com/poiesic/sift/core"
)

// Key prefixes for different data types
const (
	historyPrefix      = "qhist:"
	historyQueryPrefix = "qhidx:"
	historySeq         = "qhistseq"
)

// makeHistoryKey generates a key for a history entry by insertion sequence.
// Format: prefix:seq
func makeHistoryKey(seq uint64) []byte {
	buf := make([]byte, len(historyPrefix)+8)
	offset := copy(buf, historyPrefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeHistoryEndKey generates a key sorting after every history key.
func makeHistoryEndKey() []byte {
	return makeHistoryKey(^uint64(0))
}

// makeHistoryQueryKey generates the index key mapping a query's content ID
// to its current sequence.
// Format: prefix:id
func makeHistoryQueryKey(id core.ID) []byte {
	buf := make([]byte, len(historyQueryPrefix)+8)
	offset := copy(buf, historyQueryPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
