package hasher

import (
	"bytes"
	"testing"
)

func TestContentHash(t *testing.T) {
	// xxHash64 of the empty input with seed 0.
	if got := ContentHash(nil); got != "ef46db3751d8e999" {
		t.Errorf("empty: got %s", got)
	}

	data := []byte("imgconv")
	a := ContentHash(data)
	if len(a) != 16 {
		t.Fatalf("length: got %d", len(a))
	}
	b, err := ContentHashReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("reader digest %s != %s", b, a)
	}
	if ContentHash([]byte("imgconw")) == a {
		t.Error("different inputs share a digest")
	}
}

func TestShort(t *testing.T) {
	if got := Short("0123456789abcdef"); got != "01234567" {
		t.Errorf("got %s", got)
	}
	if got := Short("abc"); got != "abc" {
		t.Errorf("got %s", got)
	}
}
