// Package cmdline parses the kernel command line: whitespace-separated
// key[=value] tokens, with quoting and a "--" terminator for the
// userspace init tail. There is no teacher equivalent (gopheros never
// grew a parameter layer); written fresh in the teacher's
// allocation-light idiom — a single forward scan over the input string,
// *kernel.Error returns instead of the standard library's errors.New.
package cmdline

import (
	"strconv"
	"strings"

	"github.com/UltraOS/Ultra/kernel"
)

var (
	errUnterminatedQuote = kernel.New("cmdline", "unterminated quoted value", kernel.Inval)
	errNotABool          = kernel.New("cmdline", "value is not in the boolean accept-set", kernel.Inval)
)

// Param is one parsed key[=value] token.
type Param struct {
	Key   string
	Value string

	// HasValue is false for a bare key (no "="), which Bool treats as
	// true and every other Setter must handle for itself.
	HasValue bool
}

// ParseResult is the outcome of parsing a full command line.
type ParseResult struct {
	Params []Param

	// Tail is the substring after "--", with leading whitespace
	// trimmed, or "" if no terminator was present.
	Tail string
}

// Parse splits the raw command line into Params and a Tail, honoring
// "…" quoting so a quoted value may contain spaces. A bare key with no
// "=" is recorded with HasValue false.
func Parse(line string) (ParseResult, *kernel.Error) {
	var res ParseResult

	rest := line
	for {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return res, nil
		}
		if rest == "--" || strings.HasPrefix(rest, "-- ") || strings.HasPrefix(rest, "--\t") {
			res.Tail = strings.TrimLeft(rest[2:], " \t")
			return res, nil
		}

		tok, remainder, err := nextToken(rest)
		if err != nil {
			return ParseResult{}, err
		}
		res.Params = append(res.Params, tok)
		rest = remainder
	}
}

// nextToken consumes one key[=value] token from the front of s,
// returning it alongside whatever input remains.
func nextToken(s string) (Param, string, *kernel.Error) {
	end := strings.IndexAny(s, " \t")
	word := s
	remainder := ""
	if end >= 0 {
		word = s[:end]
		remainder = s[end:]
	}

	eq := strings.IndexByte(word, '=')
	if eq < 0 {
		return Param{Key: normalizeKey(word)}, remainder, nil
	}

	key := normalizeKey(word[:eq])
	val := word[eq+1:]

	if strings.HasPrefix(val, "\"") {
		// A quoted value may contain the spaces that would otherwise
		// have ended the token early, so re-scan from the opening
		// quote (index eq+1 within word, which is also its index
		// within s since word is a prefix of s) across the original,
		// un-split string rather than the whitespace-truncated word.
		return parseQuoted(key, s, eq+1)
	}

	return Param{Key: key, Value: val, HasValue: true}, remainder, nil
}

// parseQuoted scans a "…" value starting at the opening quote (index
// quoteStart within s) and returns the parsed Param plus whatever
// remains of s after the closing quote and its trailing whitespace.
func parseQuoted(key, s string, quoteStart int) (Param, string, *kernel.Error) {
	body := s[quoteStart+1:]
	end := strings.IndexByte(body, '"')
	if end < 0 {
		return Param{}, "", errUnterminatedQuote
	}

	return Param{Key: key, Value: body[:end], HasValue: true}, body[end+1:], nil
}

// normalizeKey makes key lookups dash/underscore-insensitive and
// case-insensitive, per spec: "console-log" and "console_log" name the
// same parameter.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "-", "_")
}

// boolTrue/boolFalse are the accept-sets from spec ?5's "Bool
// accept-set" scenario, matched case-insensitively.
var (
	boolTrue  = map[string]bool{"y": true, "t": true, "on": true, "1": true}
	boolFalse = map[string]bool{"n": true, "f": true, "off": true, "0": true}
)

// Bool interprets a Param's textual value against the boolean
// accept-set. A bare key (HasValue == false) is always true.
func Bool(p Param) (bool, *kernel.Error) {
	if !p.HasValue {
		return true, nil
	}
	v := strings.ToLower(p.Value)
	if boolTrue[v] {
		return true, nil
	}
	if boolFalse[v] {
		return false, nil
	}
	return false, errNotABool
}

// Int parses a Param's value as a signed integer of the given bit size
// (8/16/32/64), mirroring the spec's i8/i32-typed setters.
func Int(p Param, bitSize int) (int64, *kernel.Error) {
	n, err := strconv.ParseInt(p.Value, 10, bitSize)
	if err != nil {
		return 0, kernel.New("cmdline", "value is not a valid integer", kernel.Inval)
	}
	return n, nil
}

// Uint parses a Param's value as an unsigned integer of the given bit
// size (8/16/32/64), mirroring the spec's u32-typed setters.
func Uint(p Param, bitSize int) (uint64, *kernel.Error) {
	n, err := strconv.ParseUint(p.Value, 10, bitSize)
	if err != nil {
		return 0, kernel.New("cmdline", "value is not a valid unsigned integer", kernel.Inval)
	}
	return n, nil
}

// Apply looks up each Param by key in setters and invokes its Setter
// exactly once, per spec ?8's "Command-line fidelity" property. Params
// with no matching setter are silently ignored, matching the teacher's
// general policy of tolerating unknown attributes rather than failing
// boot over them.
type Setter func(Param) *kernel.Error

func Apply(params []Param, setters map[string]Setter) *kernel.Error {
	for _, p := range params {
		set, ok := setters[p.Key]
		if !ok {
			continue
		}
		if err := set(p); err != nil {
			return err
		}
	}
	return nil
}
