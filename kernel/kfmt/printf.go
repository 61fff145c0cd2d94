package kfmt

import "github.com/UltraOS/Ultra/kernel/console"

// logBufSize is the fixed stack buffer every Printf call formats into,
// matching spec ?4.A's "~256-byte stack buffer".
const logBufSize = 256

// Printf formats according to format and args and fans the result out to
// every registered console sink (kernel/console). If format begins with
// the severity-prefix sequence '\x01' <'0'..'7'> (spec ?6), that prefix
// is stripped and used as the message's severity; otherwise the message
// is logged at console.Notice, matching spec ?4.A's "unknown prefixes
// default to NOTICE".
//
// Printf returns the number of bytes written, or a negative value if the
// format string was malformed (see Vscnprintf).
func Printf(format string, args ...interface{}) int {
	severity := console.Notice
	if len(format) >= 2 && format[0] == 0x01 && format[1] >= '0' && format[1] <= '7' {
		severity = console.Severity(format[1] - '0')
		format = format[2:]
	}

	var buf [logBufSize]byte
	n := Vscnprintf(buf[:], format, args...)
	if n < 0 {
		return n
	}
	if n > logBufSize {
		n = logBufSize
	}
	console.Write(severity, buf[:n])
	return n
}

// Sprintf formats according to format and args and returns the result as
// a freshly allocated string. Unlike Printf it does not fan out to any
// console sink; it exists for the (post-heap) callers that need a
// formatted string value rather than a side-effecting write, e.g.
// building a panic message. It still uses the fixed-size stack buffer
// internally and therefore truncates output beyond logBufSize bytes.
func Sprintf(format string, args ...interface{}) string {
	var buf [logBufSize]byte
	n := Vscnprintf(buf[:], format, args...)
	if n < 0 {
		return "%!(INVALID FORMAT)"
	}
	if n > logBufSize {
		n = logBufSize
	}
	return string(buf[:n])
}
