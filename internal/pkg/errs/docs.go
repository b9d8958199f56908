// Package errs provides standardized error types for the lunch-ordering
// application. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value falls outside its bounds
//   - ObjectNotFoundError: For when an object cannot be found
//   - ConflictError: For user-actionable collisions with existing state
//   - DependencyFailedError: For failures of out-of-process collaborators
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// The sentinels double as the transport error taxonomy: HTTP handlers
// classify with errors.Is and map required/invalid to 400, not-found to 404,
// conflicts to 409, and dependency failures to 502.
package errs
