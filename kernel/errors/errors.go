// Package errors provides a trivial, allocation-free error type for use
// by packages that sit below the root kernel package in the import
// graph (kfmt, console) and therefore cannot use *kernel.Error without
// creating an import cycle (kernel imports kfmt and console to print
// panic reports and stack traces).
package errors

// KernelError is a string that implements the error interface without
// requiring a call to errors.New (and therefore without requiring the
// Go allocator, which is not available this early in boot).
type KernelError string

// Error implements the error interface.
func (err KernelError) Error() string {
	return string(err)
}

// ErrAlreadyRegistered is returned by console.Register for a duplicate
// sink name.
const ErrAlreadyRegistered = KernelError("sink already registered")

// ErrNotRegistered is returned by console.Unregister for an unknown
// sink name.
const ErrNotRegistered = KernelError("sink not registered")
