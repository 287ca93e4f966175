package steep

import (
	"context"
	"io"
	"reflect"
	"testing"
	"time"
)

const testEscTimeout = 20 * time.Millisecond

// decodeStream runs the input decoder over the given writes, pausing
// between them when asked, and returns every message emitted before EOF.
func decodeStream(t *testing.T, pause time.Duration, writes ...[]byte) []Msg {
	t.Helper()

	pr, pw := io.Pipe()
	var msgs []Msg
	done := make(chan error, 1)
	go func() {
		done <- readInput(context.Background(), pr, testEscTimeout, func(m Msg) {
			msgs = append(msgs, m)
		})
	}()

	for i, w := range writes {
		if i > 0 && pause > 0 {
			time.Sleep(pause)
		}
		if _, err := pw.Write(w); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	pw.Close()

	if err := <-done; err != nil {
		t.Fatalf("readInput: %v", err)
	}

	// EOF always ends the stream with a QuitMsg.
	if len(msgs) == 0 {
		t.Fatal("no messages emitted")
	}
	last := msgs[len(msgs)-1]
	if _, ok := last.(QuitMsg); !ok {
		t.Fatalf("stream ended with %T, want QuitMsg", last)
	}
	return msgs[:len(msgs)-1]
}

func keyRunes(s string) KeyMsg {
	return KeyMsg{Type: KeyRunes, Runes: []rune(s)}
}

func TestDecodeBasicKeys(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Msg
	}{
		{"printable run", "abc", []Msg{keyRunes("abc")}},
		{"utf8 runes", "héllo", []Msg{keyRunes("héllo")}},
		{"ctrl+c", "\x03", []Msg{KeyMsg{Type: KeyCtrlC}}},
		{"enter", "\r", []Msg{KeyMsg{Type: KeyEnter}}},
		{"space splits runs", "a b", []Msg{keyRunes("a"), KeyMsg{Type: KeySpace}, keyRunes("b")}},
		{"arrow", "\x1b[A", []Msg{KeyMsg{Type: KeyUp}}},
		{"modified arrow", "\x1b[1;5C", []Msg{KeyMsg{Type: KeyCtrlRight}}},
		{"alt rune", "\x1bz", []Msg{KeyMsg{Type: KeyRunes, Runes: []rune{'z'}, Alt: true}}},
		{"meta-prefixed arrow", "\x1b\x1b[A", []Msg{KeyMsg{Type: KeyUp, Alt: true}}},
		{"focus in and out", "\x1b[I\x1b[O", []Msg{FocusMsg{}, BlurMsg{}}},
		{
			"paste",
			"\x1b[200~two words\x1b[201~",
			[]Msg{KeyMsg{Type: KeyRunes, Runes: []rune("two words"), Paste: true}},
		},
		{
			"sgr wheel up",
			"\x1b[<64;120;40M",
			[]Msg{MouseMsg{X: 120, Y: 40, Button: MouseWheelUp, Action: MouseActionPress}},
		},
		{
			"x10 left press",
			"\x1b[M\x20\x2a\x25",
			[]Msg{MouseMsg{X: 10, Y: 5, Button: MouseLeft, Action: MouseActionPress}},
		},
		{
			"mixed stream",
			"q\x1b[B\x04",
			[]Msg{keyRunes("q"), KeyMsg{Type: KeyDown}, KeyMsg{Type: KeyCtrlD}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeStream(t, 0, []byte(tt.input))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decoded %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Splitting the input at arbitrary byte boundaries must not change what is
// decoded, as long as the continuation arrives within the escape timeout.
func TestDecodeChunkBoundaryInvariance(t *testing.T) {
	input := []byte("a\x1b[1;5Ché\x1b[<64;120;40Mok")

	whole := decodeStream(t, 0, input)

	byteAtATime := make([][]byte, len(input))
	for i := range input {
		byteAtATime[i] = input[i : i+1]
	}
	split := decodeStream(t, 0, byteAtATime...)

	// Rune runs may be grouped differently across chunkings; compare the
	// flattened key stream instead of message boundaries.
	if got, want := flattenMsgs(split), flattenMsgs(whole); !reflect.DeepEqual(got, want) {
		t.Errorf("byte-at-a-time decode = %+v, want %+v", got, want)
	}
}

// flattenMsgs splits multi-rune key events into one event per rune so that
// decodes with different chunkings can be compared.
func flattenMsgs(msgs []Msg) []Msg {
	var out []Msg
	for _, m := range msgs {
		if k, ok := m.(KeyMsg); ok && k.Type == KeyRunes && !k.Paste && len(k.Runes) > 1 {
			for _, r := range k.Runes {
				out = append(out, KeyMsg{Type: KeyRunes, Runes: []rune{r}, Alt: k.Alt})
			}
			continue
		}
		out = append(out, m)
	}
	return out
}

func TestDecodeBareEscapeTimeout(t *testing.T) {
	// A lone escape byte with no continuation degrades to the escape key
	// after the ambiguity window, then input continues normally.
	got := decodeStream(t, 4*testEscTimeout, []byte("\x1b"), []byte("x"))
	want := []Msg{KeyMsg{Type: KeyEscape}, keyRunes("x")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded %+v, want %+v", got, want)
	}
}

func TestDecodeSplitSequenceWithinTimeout(t *testing.T) {
	// The continuation arrives quickly, so the prefix is held and the full
	// sequence decodes as one key.
	got := decodeStream(t, time.Millisecond, []byte("\x1b["), []byte("A"))
	want := []Msg{KeyMsg{Type: KeyUp}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded %+v, want %+v", got, want)
	}
}

func TestDecodeAbandonedPrefixDegrades(t *testing.T) {
	// "\x1bO" could begin an SS3 sequence. When nothing follows it within
	// the window it is reinterpreted as meta+O; no byte is dropped.
	got := decodeStream(t, 4*testEscTimeout, []byte("\x1bO"), []byte("q"))
	want := []Msg{
		KeyMsg{Type: KeyRunes, Runes: []rune{'O'}, Alt: true},
		keyRunes("q"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded %+v, want %+v", got, want)
	}
}

func TestDecodeSplitRune(t *testing.T) {
	// A UTF-8 rune split across reads decodes as one rune.
	b := []byte("é")
	got := decodeStream(t, time.Millisecond, b[:1], b[1:])
	want := []Msg{keyRunes("é")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded %+v, want %+v", got, want)
	}
}

func TestDecodePasteAcrossChunks(t *testing.T) {
	got := decodeStream(t, time.Millisecond,
		[]byte("\x1b[200~first "),
		[]byte("second"),
		[]byte("\x1b[201~"),
	)
	want := []Msg{KeyMsg{Type: KeyRunes, Runes: []rune("first second"), Paste: true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded %+v, want %+v", got, want)
	}
}

func TestDecodeSplitPasteMarkers(t *testing.T) {
	// One byte per write, each well inside the escape timeout. A partial
	// start marker such as "\x1b[200" must wait like any other prefix.
	input := []byte("\x1b[200~hi\x1b[201~")
	writes := make([][]byte, len(input))
	for i := range input {
		writes[i] = input[i : i+1]
	}
	got := decodeStream(t, time.Millisecond, writes...)
	want := []Msg{KeyMsg{Type: KeyRunes, Runes: []rune("hi"), Paste: true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded %+v, want %+v", got, want)
	}
}

func TestDecodeUnterminatedPasteFlushedAtEOF(t *testing.T) {
	got := decodeStream(t, 0, []byte("\x1b[200~tail"))
	want := []Msg{KeyMsg{Type: KeyRunes, Runes: []rune("tail"), Paste: true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded %+v, want %+v", got, want)
	}
}

func TestDecodeCancelledContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- readInput(ctx, pr, testEscTimeout, func(Msg) {})
	}()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("readInput returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("readInput did not stop on context cancellation")
	}
}
