package kfmt

import (
	"testing"

	"github.com/UltraOS/Ultra/kernel/console"
)

func TestVscnprintfBasicVerbs(t *testing.T) {
	specs := []struct {
		format string
		args   []interface{}
		want   string
	}{
		{"hello %d\n", []interface{}{42}, "hello 42\n"},
		{"%x", []interface{}{uint32(255)}, "ff"},
		{"%X", []interface{}{uint32(255)}, "FF"},
		{"%o", []interface{}{uint8(8)}, "10"},
		{"%u", []interface{}{uint64(7)}, "7"},
		{"%c", []interface{}{int('A')}, "A"},
		{"%s", []interface{}{"abc"}, "abc"},
		{"%s", []interface{}{[]byte(nil)}, "<null>"},
		{"%5d", []interface{}{3}, "    3"},
		{"%-5d|", []interface{}{3}, "3    |"},
		{"%05d", []interface{}{3}, "00003"},
		{"%+d", []interface{}{3}, "+3"},
		{"%d", []interface{}{-3}, "-3"},
		{"%#x", []interface{}{uint32(255)}, "0xff"},
		{"100%%", nil, "100%"},
	}

	for i, spec := range specs {
		var buf [64]byte
		n := Vscnprintf(buf[:], spec.format, spec.args...)
		if n < 0 {
			t.Fatalf("[%d] unexpected error for format %q", i, spec.format)
		}
		got := string(buf[:n])
		if got != spec.want {
			t.Errorf("[%d] format %q: got %q, want %q", i, spec.format, got, spec.want)
		}
	}
}

func TestVscnprintfWidthStar(t *testing.T) {
	var buf [32]byte
	n := Vscnprintf(buf[:], "%*d", 6, 7)
	if n < 0 {
		t.Fatal("unexpected error")
	}
	if got := string(buf[:n]); got != "     7" {
		t.Errorf("got %q", got)
	}
}

func TestVscnprintfMalformedReturnsNegative(t *testing.T) {
	var buf [32]byte
	if n := Vscnprintf(buf[:], "%q", 1); n >= 0 {
		t.Fatalf("expected negative return for unknown verb, got %d", n)
	}
	if n := Vscnprintf(buf[:], "trailing %", 1); n >= 0 {
		t.Fatalf("expected negative return for truncated spec, got %d", n)
	}
}

func TestVscnprintfWrongArgType(t *testing.T) {
	var buf [32]byte
	n := Vscnprintf(buf[:], "%d", "not an int")
	if n < 0 {
		t.Fatal("unexpected hard error")
	}
	if string(buf[:n]) != string(errWrongArgType) {
		t.Errorf("got %q", buf[:n])
	}
}

func TestVscnprintfMissingArg(t *testing.T) {
	var buf [32]byte
	n := Vscnprintf(buf[:], "%d")
	if n < 0 {
		t.Fatal("unexpected hard error")
	}
	if string(buf[:n]) != string(errMissingArg) {
		t.Errorf("got %q", buf[:n])
	}
}

func TestVscnprintfLString(t *testing.T) {
	var buf [32]byte
	ls := LString{Len: 3, Data: []byte("abcdef")}
	n := Vscnprintf(buf[:], "%pS", ls)
	if n < 0 {
		t.Fatal("unexpected error")
	}
	if got := string(buf[:n]); got != "abc" {
		t.Errorf("got %q", got)
	}
}

func TestVscnprintfPointer(t *testing.T) {
	var buf [32]byte
	n := Vscnprintf(buf[:], "%p", uintptr(0xabc))
	if n < 0 {
		t.Fatal("unexpected error")
	}
	want := "0x0000000000000abc"
	if got := string(buf[:n]); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

type captureSink struct {
	sev console.Severity
	buf []byte
}

func (s *captureSink) Name() string { return "capture" }
func (s *captureSink) Write(sev console.Severity, p []byte) (int, error) {
	s.sev = sev
	s.buf = append([]byte(nil), p...)
	return len(p), nil
}

func TestPrintfSeverityPrefix(t *testing.T) {
	console.Reset()
	defer console.Reset()

	sink := &captureSink{}
	if err := console.Register(sink); err != nil {
		t.Fatalf("register: %v", err)
	}

	Printf("\x013hello %d\n", 42)

	if sink.sev != console.Err {
		t.Errorf("expected severity Err, got %v", sink.sev)
	}
	if string(sink.buf) != "hello 42\n" {
		t.Errorf("expected prefix stripped, got %q", sink.buf)
	}
}

func TestPrintfDefaultsToNotice(t *testing.T) {
	console.Reset()
	defer console.Reset()

	sink := &captureSink{}
	_ = console.Register(sink)

	Printf("plain message\n")

	if sink.sev != console.Notice {
		t.Errorf("expected severity Notice, got %v", sink.sev)
	}
}
