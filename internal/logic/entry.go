package logic

// EmptySlot marks an unfilled EntryBuffer position.
const EmptySlot = '_'

// EntryBuffer stages the two characters of the field being entered.
type EntryBuffer [2]byte

// NewEntryBuffer returns a buffer with both slots empty.
func NewEntryBuffer() EntryBuffer {
	return EntryBuffer{EmptySlot, EmptySlot}
}

// Reset empties both slots.
func (b *EntryBuffer) Reset() {
	b[0] = EmptySlot
	b[1] = EmptySlot
}

// Put stores key at slot i (0 or 1).
func (b *EntryBuffer) Put(i int, key byte) {
	b[i&1] = key
}

func (b EntryBuffer) String() string {
	return string(b[:])
}

// Number parses both slots as a two-digit decimal.
// ok is false if either slot is not a digit.
func (b EntryBuffer) Number() (n int, ok bool) {
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
