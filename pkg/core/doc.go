// Package core defines the shared language of the store-lib system.
//
// This package contains:
//   - Document, the ordered field/value payload exchanged with entity stores
//   - The error taxonomy (InvalidInput, Coercion, Decode, Validation,
//     UniqueConstraint, NotFound, Store)
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
