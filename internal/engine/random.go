package engine

import (
	"encoding/binary"
	"io"
	"math/rand/v2"
)

// Random is the single source of randomness for a run. The same ChaCha8
// stream backs numeric draws and the byte reader used for session ids, so a
// seed fully determines a run. Not safe for concurrent use.
type Random struct {
	*rand.Rand
	stream *rand.ChaCha8
}

func NewRandom(seed uint64) *Random {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	binary.LittleEndian.PutUint64(key[8:16], ^seed)

	stream := rand.NewChaCha8(key)
	return &Random{Rand: rand.New(stream), stream: stream}
}

func (r *Random) Read(p []byte) (int, error) {
	return r.stream.Read(p)
}

var _ io.Reader = (*Random)(nil)

// Pick returns a uniformly chosen element. It panics on an empty slice.
func Pick[T any](r *Random, items []T) T {
	return items[r.IntN(len(items))]
}
