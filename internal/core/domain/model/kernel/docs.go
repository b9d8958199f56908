// Package kernel contains shared value objects used across the domain model:
// UUID identity, fixed-point Money, the Day calendar date, and the
// ConstructorGuard pattern that keeps zero-value domain objects out of
// circulation.
//
// All kernel types are immutable value objects. Their zero values are invalid
// and must be constructed through the provided factory functions, which is
// what allows aggregates to trust them without re-validating.
package kernel
