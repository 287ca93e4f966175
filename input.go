package steep

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"
	"unicode/utf8"

	localereader "github.com/mattn/go-localereader"
	"github.com/muesli/cancelreader"
)

var (
	pasteStart = []byte("\x1b[200~")
	pasteEnd   = []byte("\x1b[201~")
)

// maxMouseSGRLen bounds the scan for an SGR mouse report's final byte so a
// garbage "\x1b[<" prefix cannot stall the decoder forever.
const maxMouseSGRLen = 32

// readInput decodes the raw byte stream from r into messages and hands them
// to send, until r is exhausted or ctx is cancelled. The input is normalized
// to UTF-8 first. On EOF a QuitMsg is emitted after the trailing bytes have
// been flushed.
//
// escTimeout is the ambiguity window: bytes that form a strict prefix of a
// longer known sequence are held back that long before being degraded to a
// bare escape followed by literal runes. Nothing is ever dropped.
func readInput(ctx context.Context, r io.Reader, escTimeout time.Duration, send func(Msg)) error {
	input := localereader.NewReader(r)

	type chunk struct {
		data []byte
		err  error
	}
	chunks := make(chan chunk)
	go func() {
		defer close(chunks)
		for {
			buf := make([]byte, 256)
			n, err := input.Read(buf)
			var c chunk
			if n > 0 {
				c.data = buf[:n]
			}
			c.err = err
			select {
			case chunks <- c:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	var pending []byte
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		// Decode as many complete events as the buffer holds.
		for len(pending) > 0 {
			consumed, msg, ok := parseOne(pending, true)
			if !ok {
				break
			}
			pending = pending[consumed:]
			if msg != nil {
				send(msg)
			}
		}

		// Arm the ambiguity timer only while undecodable bytes are
		// waiting for a continuation.
		var deadline <-chan time.Time
		if len(pending) > 0 {
			if timer == nil {
				timer = time.NewTimer(escTimeout)
			} else {
				timer.Reset(escTimeout)
			}
			deadline = timer.C
		}

		select {
		case c, open := <-chunks:
			if timer != nil && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			if len(c.data) > 0 {
				pending = append(pending, c.data...)
			}
			if !open || c.err != nil {
				flushPending(pending, send)
				switch {
				case !open, errors.Is(c.err, io.EOF):
					send(QuitMsg{})
					return nil
				case errors.Is(c.err, cancelreader.ErrCanceled):
					return nil
				default:
					return c.err
				}
			}

		case <-deadline:
			// No continuation arrived in time: emit the best
			// interpretation of what we have and keep going.
			consumed, msg, _ := parseOne(pending, false)
			pending = pending[consumed:]
			if msg != nil {
				send(msg)
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func flushPending(pending []byte, send func(Msg)) {
	for len(pending) > 0 {
		consumed, msg, _ := parseOne(pending, false)
		pending = pending[consumed:]
		if msg != nil {
			send(msg)
		}
	}
}

// parseOne decodes a single event from the front of buf. It returns the
// number of bytes consumed and the resulting message (which may be nil for
// fully consumed but meaningless input). ok is false when buf holds an
// incomplete event and expectMore is true; with expectMore false parseOne
// always makes progress, degrading ambiguous input rather than waiting.
func parseOne(buf []byte, expectMore bool) (int, Msg, bool) {
	if len(buf) == 0 {
		return 0, nil, false
	}

	if consumed, msg, ok, handled := parseMouse(buf, expectMore); handled {
		return consumed, msg, ok
	}
	if consumed, msg, ok, handled := parseFocus(buf, expectMore); handled {
		return consumed, msg, ok
	}
	if consumed, msg, ok, handled := parsePaste(buf, expectMore); handled {
		return consumed, msg, ok
	}
	if consumed, msg, ok, handled := parseSequence(buf, expectMore); handled {
		return consumed, msg, ok
	}
	return parseControlOrRunes(buf, expectMore)
}

func parseMouse(buf []byte, expectMore bool) (int, Msg, bool, bool) {
	// Legacy X10: fixed six bytes.
	if bytes.HasPrefix(buf, []byte("\x1b[M")) {
		if len(buf) < 6 {
			if expectMore {
				return 0, nil, false, true
			}
			return escFallback()
		}
		m, err := parseX10Mouse(buf[:6])
		if err != nil {
			c, msg, ok := escFallbackParsed()
			return c, msg, ok, true
		}
		return 6, MouseMsg(m), true, true
	}

	// SGR extended: terminated by M or m.
	if bytes.HasPrefix(buf, []byte("\x1b[<")) {
		limit := len(buf)
		if limit > maxMouseSGRLen {
			limit = maxMouseSGRLen
		}
		if idx := bytes.IndexAny(buf[:limit], "Mm"); idx >= 0 {
			m, err := parseSGRMouse(buf[:idx+1])
			if err != nil {
				c, msg, ok := escFallbackParsed()
				return c, msg, ok, true
			}
			return idx + 1, MouseMsg(m), true, true
		}
		if expectMore && len(buf) < maxMouseSGRLen {
			return 0, nil, false, true
		}
		return escFallback()
	}

	return 0, nil, false, false
}

func escFallback() (int, Msg, bool, bool) {
	c, msg, ok := escFallbackParsed()
	return c, msg, ok, true
}

// escFallbackParsed consumes the lone escape byte as an escape key; the
// bytes that follow will be re-parsed as ordinary input.
func escFallbackParsed() (int, Msg, bool) {
	return 1, KeyMsg{Type: KeyEscape}, true
}

func parseFocus(buf []byte, expectMore bool) (int, Msg, bool, bool) {
	if bytes.HasPrefix(buf, []byte("\x1b[I")) {
		return 3, FocusMsg{}, true, true
	}
	if bytes.HasPrefix(buf, []byte("\x1b[O")) {
		return 3, BlurMsg{}, true, true
	}
	return 0, nil, false, false
}

func parsePaste(buf []byte, expectMore bool) (int, Msg, bool, bool) {
	if !bytes.HasPrefix(buf, pasteStart) {
		// A strict prefix of the start marker may still grow into one;
		// wait for more bytes the same way a table prefix does.
		if expectMore && len(buf) < len(pasteStart) && bytes.HasPrefix(pasteStart, buf) {
			return 0, nil, false, true
		}
		return 0, nil, false, false
	}
	if idx := bytes.Index(buf, pasteEnd); idx >= 0 {
		body := buf[len(pasteStart):idx]
		msg := KeyMsg{Type: KeyRunes, Runes: bytes.Runes(body), Paste: true}
		return idx + len(pasteEnd), msg, true, true
	}
	if expectMore {
		// Paste content is unbounded; accumulate until the end marker.
		return 0, nil, false, true
	}
	body := buf[len(pasteStart):]
	msg := KeyMsg{Type: KeyRunes, Runes: bytes.Runes(body), Paste: true}
	return len(buf), msg, true, true
}

func parseSequence(buf []byte, expectMore bool) (int, Msg, bool, bool) {
	if k, n, ok := lookupSequence(buf); ok {
		return n, KeyMsg(k), true, true
	}
	if expectMore && isSequencePrefix(buf) {
		return 0, nil, false, true
	}
	// A meta-prefixed sequence: ESC followed by a complete known sequence
	// decodes as the sequence with alt set.
	if buf[0] == 0x1b {
		if k, n, ok := lookupSequence(buf[1:]); ok {
			k.Alt = true
			return n + 1, KeyMsg(k), true, true
		}
	}
	return 0, nil, false, false
}

func parseControlOrRunes(buf []byte, expectMore bool) (int, Msg, bool) {
	alt := false
	idx := 0
	if buf[0] == 0x1b {
		if len(buf) == 1 {
			if expectMore {
				return 0, nil, false
			}
			return 1, KeyMsg{Type: KeyEscape}, true
		}
		// ESC followed by another ESC: deliver the first one bare.
		if buf[1] == 0x1b {
			return 1, KeyMsg{Type: KeyEscape}, true
		}
		alt = true
		idx = 1
	}

	if t, ok := controlKey(buf[idx]); ok {
		return idx + 1, KeyMsg{Type: t, Alt: alt}, true
	}

	// Assemble a run of printable runes into one event. Alt applies to a
	// single rune only.
	var runes []rune
	i := idx
	for i < len(buf) {
		b := buf[i]
		if b <= 0x1f || b == 0x7f || b == ' ' {
			break
		}
		r, width := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && width == 1 {
			if !utf8.FullRune(buf[i:]) && expectMore {
				// Trailing partial rune: wait for the rest.
				if len(runes) == 0 {
					return 0, nil, false
				}
				break
			}
			runes = append(runes, utf8.RuneError)
			i++
		} else {
			runes = append(runes, r)
			i += width
		}
		if alt {
			break
		}
	}

	if len(runes) > 0 {
		return i, KeyMsg{Type: KeyRunes, Runes: runes, Alt: alt}, true
	}

	// Unclassifiable byte; consume it so the stream keeps moving.
	return idx + 1, KeyMsg{Type: KeyRunes, Runes: []rune{utf8.RuneError}, Alt: alt}, true
}
