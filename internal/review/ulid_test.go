package review

import (
	"testing"
	"time"
)

func TestNewID_Format(t *testing.T) {
	id := NewID()
	if len(id) != 26 {
		t.Fatalf("expected 26 chars, got %d (%q)", len(id), id)
	}
	for _, c := range id {
		if decodeDigit(byte(c)) < 0 {
			t.Errorf("unexpected character %q in %q", c, id)
		}
	}
}

func TestNewID_SortsInCreationOrder(t *testing.T) {
	prev := NewID()
	for i := 0; i < 1000; i++ {
		next := NewID()
		if next <= prev {
			t.Fatalf("expected %q > %q", next, prev)
		}
		prev = next
	}
}

func TestIDTime_RoundTrip(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_123)
	idClock = func() time.Time { return fixed }
	defer func() { idClock = time.Now }()

	got, ok := idTime(NewID())
	if !ok {
		t.Fatal("expected a valid ID")
	}
	if !got.Equal(fixed) {
		t.Errorf("expected %v, got %v", fixed, got)
	}
}

func TestIDTime_Invalid(t *testing.T) {
	for _, s := range []string{"", "short", "UUUUUUUUUUUUUUUUUUUUUUUUUU"} {
		if _, ok := idTime(s); ok {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestEncodeID_KnownValue(t *testing.T) {
	var b [16]byte
	b[15] = 31
	if got := encodeID(b); got != "0000000000000000000000000Z" {
		t.Errorf("expected trailing Z, got %q", got)
	}
	for i := range b {
		b[i] = 0xff
	}
	if got := encodeID(b); got != "7ZZZZZZZZZZZZZZZZZZZZZZZZZ" {
		t.Errorf("expected max ULID, got %q", got)
	}
}

// idTime extracts the timestamp from an ID. ok is false for strings that
// are not IDs.
func idTime(id string) (time.Time, bool) {
	if len(id) != 26 {
		return time.Time{}, false
	}
	var ms uint64
	for i := 0; i < 10; i++ {
		d := decodeDigit(id[i])
		if d < 0 {
			return time.Time{}, false
		}
		ms = ms<<5 | uint64(d)
	}
	return time.UnixMilli(int64(ms)), true
}

func decodeDigit(c byte) int {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	for i := 0; i < len(crockford); i++ {
		if crockford[i] == c {
			return i
		}
	}
	return -1
}
