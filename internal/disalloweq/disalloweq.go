// Package disalloweq provides a method for disallowing struct comparisons
// with the `==` operator.
package disalloweq

// DisallowEqual can be used to cause the compiler to reject attempts to
// compare structs with the `==` operator.  Embed it in any type that holds
// secret limb material (private exponents, prime factors, Montgomery
// contexts) so that an accidental `==` comparison - which would compare
// padding and capacity, not value, and which is not constant-time - fails
// to compile instead of silently doing the wrong thing.
type DisallowEqual [0]func()
