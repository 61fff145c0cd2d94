package kernel

import "github.com/UltraOS/Ultra/kernel/kfmt"

// callerLocationFn is the hook BugOn and WarnOn use to find their
// caller's file/line. Both are marked go:noinline so the frame it skips
// is always their own and the reported file/line is the call site, not
// this file.
var callerLocationFn = callerLocation

// BugOn panics with a formatted "BUG" report naming file and line if
// expr is true. It is the kernel's equivalent of an assertion that can
// never be allowed to be false: exhausted preallocated kernel tables, a
// present page-table entry pointing at a nonsense address, freeing a
// physical range the boot allocator never handed out.
//
//go:noinline
func BugOn(expr bool, format string, args ...interface{}) {
	if !expr {
		return
	}
	file, line := callerLocationFn(1)
	Panic(New("bug", kfmt.Sprintf("BUG at %s:%d: %s", file, line, kfmt.Sprintf(format, args...)), Unspecified))
}

// WarnOn logs a formatted warning naming file and line if expr is true,
// and returns expr unchanged so callers can write:
//
//	if kernel.WarnOn(len(ranges) == 0, "empty range list") {
//	    return
//	}
//
//go:noinline
func WarnOn(expr bool, format string, args ...interface{}) bool {
	if expr {
		file, line := callerLocationFn(1)
		kfmt.Printf("\x014WARNING at %s:%d: %s\n", file, line, kfmt.Sprintf(format, args...))
	}
	return expr
}

// callerLocation reports the file/line of the function skip frames above
// its own caller. It is deliberately minimal (no full runtime.Caller
// dependency beyond what's needed) since it must work before the Go
// runtime's symbol tables are fully usable in some boot stages; callers
// needing a full stack trace use kernel/unwind instead.
func callerLocation(skip int) (string, int) {
	return location(skip + 1)
}
