// Package console implements the log sink registry described in spec
// ?4.A: a singly-linked list of named sinks that every formatted log
// message is fanned out to, in registration order. It intentionally has
// no dependency on the root kernel package (see kernel/errors) since the
// root package's Panic path needs to print through this registry.
package console

import "github.com/UltraOS/Ultra/kernel/errors"

// Severity mirrors the syslog levels 0-7 named in spec ?4.A / ?6.
type Severity uint8

const (
	Emergency Severity = iota
	Alert
	Critical
	Err
	Warning
	Notice
	Info
	Debug

	// numSeverities bounds the valid Severity range; anything >= this
	// is not a recognised severity and defaults to Notice (spec ?4.A).
	numSeverities
)

// defaultSeverity is used when a message's prefix byte does not encode a
// recognised severity digit.
const defaultSeverity = Notice

// Sink is a registered log destination. Write receives the fully
// formatted message body (severity prefix already stripped) along with
// the severity it was logged at, so a sink may filter on level.
type Sink interface {
	Name() string
	Write(severity Severity, p []byte) (n int, err error)
}

type node struct {
	sink Sink
	next *node
}

var head *node

// Register adds sink to the fan-out list. It is rejected with
// errors.ErrAlreadyRegistered if a sink with the same name is already
// present (spec ?4.A / ?7's Busy error kind — represented here as a
// leaf KernelError rather than a *kernel.Error; see kernel/errors).
func Register(sink Sink) error {
	for n := head; n != nil; n = n.next {
		if n.sink.Name() == sink.Name() {
			return errors.ErrAlreadyRegistered
		}
	}

	// Append at the tail so fan-out preserves registration order
	// (spec: "in insertion order").
	newNode := &node{sink: sink}
	if head == nil {
		head = newNode
		return nil
	}
	tail := head
	for tail.next != nil {
		tail = tail.next
	}
	tail.next = newNode
	return nil
}

// Unregister removes the sink with the given name. It is a no-op error
// (ErrNotRegistered) to unregister a name that was never registered.
func Unregister(name string) error {
	var prev *node
	for n := head; n != nil; prev, n = n, n.next {
		if n.sink.Name() == name {
			if prev == nil {
				head = n.next
			} else {
				prev.next = n.next
			}
			return nil
		}
	}
	return errors.ErrNotRegistered
}

// Write fans a message out to every currently-registered sink, in
// insertion order. It never fails on an individual sink error; a sink
// misbehaving (e.g. a full serial FIFO) must not prevent other sinks
// from receiving the message.
func Write(severity Severity, p []byte) {
	if severity >= numSeverities {
		severity = defaultSeverity
	}
	for n := head; n != nil; n = n.next {
		_, _ = n.sink.Write(severity, p)
	}
}

// Reset removes every registered sink. Exposed for tests that need a
// clean registry between cases; production code never calls it.
func Reset() {
	head = nil
}
