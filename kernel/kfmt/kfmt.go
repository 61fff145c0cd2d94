// Package kfmt implements the kernel's printf-family formatting engine
// (spec ?4.A). It is allocation-free and has no dependency on the root
// kernel package: it sits below kernel in the import graph so that
// kernel.Panic can use kfmt.Printf to print its report without creating
// an import cycle. Malformed format strings never produce undefined
// output; every parse failure returns a negative errno-style code
// instead, mirroring the C vscnprintf contract named in the spec.
package kfmt

// einval mirrors the traditional EINVAL errno value; Vscnprintf and
// Printf return -einval (spec ?4.A: "every specifier returns -EINVAL").
const einval = 22

// LString is the internal length-prefixed string type the custom %pS
// verb understands, for printing strings whose data does not come from
// a Go string header (e.g. a fixed-size byte array embedded in a
// structure read from hardware).
type LString struct {
	Len  int
	Data []byte
}

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	nullString      = []byte("<null>")
)

type flags struct {
	leftAlign bool
	forceSign bool
	zeroPad   bool
	alternate bool
}

// Vscnprintf formats according to format and args, writing into dst and
// returning the number of bytes written. It returns -EINVAL (a negative
// int) the moment it encounters a malformed specifier, at which point
// dst contains only the bytes written for the well-formed prefix.
func Vscnprintf(dst []byte, format string, args ...interface{}) int {
	w := &writer{buf: dst}
	argIdx := 0
	i, n := 0, len(format)

	for i < n {
		ch := format[i]
		if ch != '%' {
			w.writeByte(ch)
			i++
			continue
		}
		i++
		if i >= n {
			return -einval
		}
		if format[i] == '%' {
			w.writeByte('%')
			i++
			continue
		}

		spec, next, ok := parseSpec(format, i, args, &argIdx)
		if !ok {
			return -einval
		}
		i = next

		if !renderSpec(w, spec, args, &argIdx) {
			return -einval
		}
	}

	if argIdx < len(args) {
		w.write(errExtraArg)
	}

	if w.n > len(dst) {
		return len(dst)
	}
	return w.n
}

// spec describes one parsed %-specifier.
type spec struct {
	flags     flags
	width     int
	hasWidth  bool
	precision int
	hasPrec   bool
	sizeMod   string // "", "hh", "h", "l", "ll", "z"
	verb      byte   // 'd','i','u','o','x','X','c','s','p','P' (P = %pS)
}

func parseSpec(format string, i int, args []interface{}, argIdx *int) (spec, int, bool) {
	var s spec
	n := len(format)

	// flags
flagLoop:
	for i < n {
		switch format[i] {
		case '+':
			s.flags.forceSign = true
		case '-':
			s.flags.leftAlign = true
		case '0':
			s.flags.zeroPad = true
		case '#':
			s.flags.alternate = true
		default:
			break flagLoop
		}
		i++
	}

	// width
	if i < n && format[i] == '*' {
		if *argIdx >= len(args) {
			return s, i, false
		}
		wv, ok := toInt(args[*argIdx])
		if !ok {
			return s, i, false
		}
		*argIdx++
		s.width = wv
		s.hasWidth = true
		i++
	} else {
		start := i
		for i < n && format[i] >= '0' && format[i] <= '9' {
			i++
		}
		if i > start {
			s.width = atoi(format[start:i])
			s.hasWidth = true
		}
	}

	// precision
	if i < n && format[i] == '.' {
		i++
		if i < n && format[i] == '*' {
			if *argIdx >= len(args) {
				return s, i, false
			}
			pv, ok := toInt(args[*argIdx])
			if !ok {
				return s, i, false
			}
			*argIdx++
			s.precision = pv
			s.hasPrec = true
			i++
		} else {
			start := i
			for i < n && format[i] >= '0' && format[i] <= '9' {
				i++
			}
			s.precision = atoi(format[start:i])
			s.hasPrec = true
		}
	}

	// size modifier: longest match first (ll before l, hh before h)
	switch {
	case hasPrefix(format, i, "hh"):
		s.sizeMod = "hh"
		i += 2
	case hasPrefix(format, i, "ll"):
		s.sizeMod = "ll"
		i += 2
	case hasPrefix(format, i, "h"):
		s.sizeMod = "h"
		i++
	case hasPrefix(format, i, "l"):
		s.sizeMod = "l"
		i++
	case hasPrefix(format, i, "z"):
		s.sizeMod = "z"
		i++
	}

	if i >= n {
		return s, i, false
	}

	switch format[i] {
	case 'd', 'i', 'u', 'o', 'x', 'X', 'c', 's', 'p':
		s.verb = format[i]
		i++
	default:
		return s, i, false
	}

	// custom %pS verb: the 'p' is immediately followed by 'S'
	if s.verb == 'p' && i < n && format[i] == 'S' {
		s.verb = 'P'
		i++
	}

	return s, i, true
}

func hasPrefix(s string, at int, prefix string) bool {
	if at+len(prefix) > len(s) {
		return false
	}
	return s[at:at+len(prefix)] == prefix
}

func atoi(s string) int {
	v := 0
	for i := 0; i < len(s); i++ {
		v = v*10 + int(s[i]-'0')
	}
	return v
}

func renderSpec(w *writer, s spec, args []interface{}, argIdx *int) bool {
	switch s.verb {
	case 'd', 'i', 'u', 'o', 'x', 'X':
		if *argIdx >= len(args) {
			w.write(errMissingArg)
			return true
		}
		arg := args[*argIdx]
		*argIdx++
		return renderInt(w, s, arg)
	case 'c':
		if *argIdx >= len(args) {
			w.write(errMissingArg)
			return true
		}
		arg := args[*argIdx]
		*argIdx++
		cv, ok := toInt(arg)
		if !ok {
			w.write(errWrongArgType)
			return true
		}
		pad(w, s, 1, func() { w.writeByte(byte(cv)) })
		return true
	case 's':
		if *argIdx >= len(args) {
			w.write(errMissingArg)
			return true
		}
		arg := args[*argIdx]
		*argIdx++
		return renderString(w, s, arg)
	case 'P':
		if *argIdx >= len(args) {
			w.write(errMissingArg)
			return true
		}
		arg := args[*argIdx]
		*argIdx++
		ls, ok := arg.(LString)
		if !ok {
			w.write(errWrongArgType)
			return true
		}
		body := ls.Data
		if ls.Len < len(body) {
			body = body[:ls.Len]
		}
		pad(w, s, len(body), func() { w.write(body) })
		return true
	case 'p':
		if *argIdx >= len(args) {
			w.write(errMissingArg)
			return true
		}
		arg := args[*argIdx]
		*argIdx++
		addr, ok := toUint(arg)
		if !ok {
			w.write(errWrongArgType)
			return true
		}
		const ptrDigits = 16
		var digitBuf [maxDigits]byte
		start := digitsOf(&digitBuf, addr, 16, false)
		digits := digitBuf[start:]
		zeros := 0
		if len(digits) < ptrDigits {
			zeros = ptrDigits - len(digits)
		}
		pad(w, s, 2+zeros+len(digits), func() {
			w.writeByte('0')
			w.writeByte('x')
			for i := 0; i < zeros; i++ {
				w.writeByte('0')
			}
			w.write(digits)
		})
		return true
	}
	return false
}

func renderString(w *writer, s spec, arg interface{}) bool {
	var body []byte
	switch v := arg.(type) {
	case string:
		body = []byte(v)
	case []byte:
		if v == nil {
			body = nullString
		} else {
			body = v
		}
	default:
		w.write(errWrongArgType)
		return true
	}
	if s.hasPrec && s.precision < len(body) {
		body = body[:s.precision]
	}
	pad(w, s, len(body), func() { w.write(body) })
	return true
}

func renderInt(w *writer, s spec, arg interface{}) bool {
	var (
		base    uint64 = 10
		upper   bool
		neg     bool
		uval    uint64
	)
	switch s.verb {
	case 'o':
		base = 8
	case 'x':
		base = 16
	case 'X':
		base, upper = 16, true
	}

	switch s.verb {
	case 'd', 'i':
		sv, ok := toInt64(arg)
		if !ok {
			w.write(errWrongArgType)
			return true
		}
		if sv < 0 {
			neg = true
			uval = uint64(-sv)
		} else {
			uval = uint64(sv)
		}
	default: // u, o, x, X are unsigned
		uv, ok := toUint(arg)
		if !ok {
			w.write(errWrongArgType)
			return true
		}
		uval = uv
	}

	var digitBuf [maxDigits]byte
	start := digitsOf(&digitBuf, uval, base, upper)
	digits := digitBuf[start:]

	precZeros := 0
	if s.hasPrec && s.precision > len(digits) {
		precZeros = s.precision - len(digits)
	}
	firstDigit := byte('0')
	if precZeros == 0 && len(digits) > 0 {
		firstDigit = digits[0]
	}

	var prefix [2]byte
	prefixLen := 0
	switch {
	case neg:
		prefix[0] = '-'
		prefixLen = 1
	case s.flags.forceSign && (s.verb == 'd' || s.verb == 'i'):
		prefix[0] = '+'
		prefixLen = 1
	}
	if s.flags.alternate && base == 16 {
		prefix[0] = '0'
		if upper {
			prefix[1] = 'X'
		} else {
			prefix[1] = 'x'
		}
		prefixLen = 2
	} else if s.flags.alternate && base == 8 && firstDigit != '0' {
		prefix[prefixLen] = '0'
		prefixLen++
	}

	total := prefixLen + precZeros + len(digits)
	padCh := byte(' ')
	if s.flags.zeroPad && !s.flags.leftAlign && !s.hasPrec {
		padCh = '0'
	}

	if s.hasWidth && total < s.width && !s.flags.leftAlign {
		padCount := s.width - total
		if padCh == '0' {
			// zero-padding goes between the sign/prefix and digits
			w.write(prefix[:prefixLen])
			for i := 0; i < padCount; i++ {
				w.writeByte('0')
			}
			for i := 0; i < precZeros; i++ {
				w.writeByte('0')
			}
			w.write(digits)
			return true
		}
		for i := 0; i < padCount; i++ {
			w.writeByte(' ')
		}
		w.write(prefix[:prefixLen])
		for i := 0; i < precZeros; i++ {
			w.writeByte('0')
		}
		w.write(digits)
		return true
	}

	w.write(prefix[:prefixLen])
	for i := 0; i < precZeros; i++ {
		w.writeByte('0')
	}
	w.write(digits)
	if s.hasWidth && total < s.width && s.flags.leftAlign {
		for i := 0; i < s.width-total; i++ {
			w.writeByte(' ')
		}
	}
	return true
}

// pad writes body (via emit) applying width/justification from s around
// a body of the given length. It is shared by %c/%s/%p/%pS which, unlike
// integers, never interleave sign and zero-padding.
func pad(w *writer, s spec, bodyLen int, emit func()) {
	if !s.hasWidth || bodyLen >= s.width {
		emit()
		return
	}
	padCount := s.width - bodyLen
	if s.flags.leftAlign {
		emit()
		for i := 0; i < padCount; i++ {
			w.writeByte(' ')
		}
		return
	}
	for i := 0; i < padCount; i++ {
		w.writeByte(' ')
	}
	emit()
}

// maxDigits bounds a 64-bit value's widest expansion (base 8, 22 digits)
// with headroom; digitsOf never needs a destination sized ahead of time
// because it fills buf from the end backward.
const maxDigits = 64

// digitsOf renders v in the given base into buf, most significant digit
// first, and returns the index of the first digit written (buf[idx:]
// are the digits). Writing into a caller-owned array instead of
// returning a make()'d slice keeps every integer/pointer verb
// allocation-free.
func digitsOf(buf *[maxDigits]byte, v uint64, base uint64, upper bool) int {
	digits := "0123456789abcdef"
	if upper {
		digits = "0123456789ABCDEF"
	}
	if v == 0 {
		buf[maxDigits-1] = '0'
		return maxDigits - 1
	}
	i := maxDigits
	for v > 0 {
		i--
		buf[i] = digits[v%base]
		v /= base
	}
	return i
}

func toInt(v interface{}) (int, bool) {
	sv, ok := toInt64(v)
	if ok {
		return int(sv), true
	}
	uv, ok := toUint(v)
	if ok {
		return int(uv), true
	}
	return 0, false
}

func toInt64(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	}
	return 0, false
}

func toUint(v interface{}) (uint64, bool) {
	switch t := v.(type) {
	case uint:
		return uint64(t), true
	case uint8:
		return uint64(t), true
	case uint16:
		return uint64(t), true
	case uint32:
		return uint64(t), true
	case uint64:
		return t, true
	case uintptr:
		return uint64(t), true
	case int:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	case int64:
		if t < 0 {
			return 0, false
		}
		return uint64(t), true
	}
	return 0, false
}

// writer accumulates formatted output into a fixed destination buffer,
// silently dropping bytes past its end. n counts every byte offered,
// including dropped ones; Vscnprintf clamps it to len(buf) before
// returning it.
type writer struct {
	buf []byte
	n   int
}

func (w *writer) writeByte(b byte) {
	if w.n < len(w.buf) {
		w.buf[w.n] = b
	}
	w.n++
}

func (w *writer) write(p []byte) {
	for _, b := range p {
		w.writeByte(b)
	}
}
