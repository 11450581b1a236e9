package input

import (
	"io"
	"strconv"
	"strings"
	"time"
)

// DefaultKeyHold is how long a key counts as held after its last byte.
// Terminals never report key releases, so holding relies on auto-repeat.
const DefaultKeyHold = 150 * time.Millisecond

// Stream delivers terminal bytes via a channel and converts them into
// State and Fusion events.
type Stream struct {
	ch      chan byte
	hold    time.Duration
	seen    map[string]time.Time
	pending []byte
	closed  bool
}

// Result summarizes one Apply call.
type Result struct {
	Quit    bool
	Start   bool // space or enter
	Keys    int
	Pointer bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r io.ByteReader, hold time.Duration) *Stream {
	if hold <= 0 {
		hold = DefaultKeyHold
	}
	s := &Stream{
		ch:   make(chan byte, 256),
		hold: hold,
		seen: make(map[string]time.Time),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Apply drains all available bytes (non-blocking) and pushes them into f
// and its state. Keys not repeated within the hold window are released.
func (s *Stream) Apply(f *Fusion, now time.Time) Result {
	buf := s.drain()
	var res Result
	if len(buf) == 0 && len(s.pending) > 0 {
		// A lone ESC with nothing following is the escape key itself.
		s.pending = nil
	}
	buf = append(s.pending, buf...)
	s.pending = nil

	state := f.State()
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			n, complete := s.parseEscape(buf[i:], f, &res, now)
			if !complete {
				s.pending = append([]byte(nil), buf[i:]...)
				break
			}
			if n > 0 {
				i += n - 1
				continue
			}
		}

		switch b {
		case 'q', 'Q', 0x03:
			res.Quit = true
		case ' ', '\r', '\n':
			res.Start = true
		case 'w', 'W':
			s.press(state, ButtonUp, now)
			res.Keys++
		case 'a', 'A':
			s.press(state, ButtonLeft, now)
			res.Keys++
		case 's', 'S':
			s.press(state, ButtonDown, now)
			res.Keys++
		case 'd', 'D':
			s.press(state, ButtonRight, now)
			res.Keys++
		case 'b', 'B':
			s.press(state, ButtonAddBot, now)
			res.Keys++
		case 'v', 'V':
			s.press(state, ButtonRemoveBot, now)
			res.Keys++
		}
	}

	for name, t := range s.seen {
		if now.Sub(t) >= s.hold {
			state.OnButtonUp(SourceKeyboard, name)
			delete(s.seen, name)
		}
	}

	if s.closed {
		res.Quit = true
	}
	return res
}

// Reset releases every key this stream is holding.
func (s *Stream) Reset(state *State) {
	for name := range s.seen {
		state.OnButtonUp(SourceKeyboard, name)
	}
	clear(s.seen)
	s.pending = nil
}

func (s *Stream) drain() []byte {
	var buf []byte
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				return buf
			}
			buf = append(buf, b)
		default:
			return buf
		}
	}
}

func (s *Stream) press(state *State, name string, now time.Time) {
	if _, held := s.seen[name]; !held {
		state.OnButtonDown(SourceKeyboard, name)
	}
	s.seen[name] = now
}

// parseEscape handles a CSI or SS3 sequence starting at seq[0] == ESC. It
// returns the number of bytes consumed (0 when ESC does not start a sequence)
// and whether the sequence was complete. Arrow keys map to movement whatever
// their modifiers; any other sequence is consumed and ignored.
func (s *Stream) parseEscape(seq []byte, f *Fusion, res *Result, now time.Time) (int, bool) {
	if len(seq) < 2 {
		return 0, false
	}
	switch seq[1] {
	case 'O':
		if len(seq) < 3 {
			return 0, false
		}
		s.arrow(seq[2], f, res, now)
		return 3, true
	case '[':
	default:
		return 0, true
	}
	if len(seq) < 3 {
		return 0, false
	}
	if seq[2] == '<' {
		return parseMouse(seq, f, res)
	}

	// Parameter and intermediate bytes run up to the final byte.
	i := 2
	for i < len(seq) && seq[i] >= 0x20 && seq[i] <= 0x3f {
		i++
	}
	if i == len(seq) {
		return 0, false
	}
	if seq[i] < 0x40 || seq[i] > 0x7e {
		return i, true
	}
	s.arrow(seq[i], f, res, now)
	return i + 1, true
}

func (s *Stream) arrow(final byte, f *Fusion, res *Result, now time.Time) {
	var name string
	switch final {
	case 'A':
		name = ButtonUp
	case 'B':
		name = ButtonDown
	case 'C':
		name = ButtonRight
	case 'D':
		name = ButtonLeft
	default:
		return
	}
	s.press(f.State(), name, now)
	res.Keys++
}

// parseMouse decodes an SGR mouse report: ESC [ < b ; x ; y (M|m).
func parseMouse(seq []byte, f *Fusion, res *Result) (int, bool) {
	end := -1
	for i := 3; i < len(seq); i++ {
		if seq[i] == 'M' || seq[i] == 'm' {
			end = i
			break
		}
		if (seq[i] < '0' || seq[i] > '9') && seq[i] != ';' {
			return 0, true
		}
	}
	if end < 0 {
		return 0, false
	}

	parts := strings.Split(string(seq[3:end]), ";")
	if len(parts) != 3 {
		return end + 1, true
	}
	btn, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return end + 1, true
	}

	// Wheel events (64+) and releases do not steer.
	if btn >= 64 || seq[end] == 'm' {
		return end + 1, true
	}
	px, py := float64(x-1), float64(y-1)
	if btn&32 != 0 {
		f.PointerMove(px, py)
	} else {
		f.PointerDown(px, py)
	}
	res.Pointer = true
	return end + 1, true
}
