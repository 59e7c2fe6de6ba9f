package mqtt

import "log"

// bufferedMsg is a serialized publish waiting for the broker to come back.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a fixed-capacity FIFO of messages held while disconnected.
// When full the oldest message is overwritten. Not safe for concurrent use.
type ringBuffer struct {
	buf     []bufferedMsg
	head    int // next write position
	count   int
	dropped int // messages overwritten since last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{buf: make([]bufferedMsg, capacity)}
}

func (r *ringBuffer) push(msg bufferedMsg) {
	n := len(r.buf)
	r.buf[r.head] = msg
	r.head = (r.head + 1) % n
	if r.count < n {
		r.count++
		return
	}
	if r.dropped == 0 {
		log.Printf("mqtt: buffer full (%d messages), dropping oldest", n)
	}
	r.dropped++
}

// drainAll returns buffered messages oldest first and empties the buffer.
func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.count == 0 {
		return nil
	}

	n := len(r.buf)
	out := make([]bufferedMsg, r.count)
	start := (r.head - r.count + n) % n
	for i := range out {
		out[i] = r.buf[(start+i)%n]
	}

	if r.dropped > 0 {
		log.Printf("mqtt: %d buffered messages were dropped while disconnected", r.dropped)
	}
	r.head, r.count, r.dropped = 0, 0, 0
	return out
}

func (r *ringBuffer) len() int {
	return r.count
}
