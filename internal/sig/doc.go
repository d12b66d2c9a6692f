// Package sig models the shape of callable types and rewrites it.
//
// # Data model
//
// Descriptor is the decomposed form of a signature: five qualifier axes
// (const, volatile, reference mode, variadic, no-throw), a result type and an
// ordered parameter list. It is a value; operations return new descriptors or
// new types and never touch their inputs.
//
// # Table
//
// Function types spell their qualifiers as a tail (types.FnQual). The
// mapping between tails and qualifier combinations is the 48-row table in
// table.go. Synthesize reads it by combination, Decompose reads it by tail;
// the two are exact inverses and a tail without a row is rejected.
//
// # Transformations
//
// Add and Remove edit one axis: decompose, flip, synthesise. Composite
// helpers (AddCV, RemoveCVRef, RemoveQualifiers, ...) chain them.
//
// # Classification
//
// Classify accepts anything invocable-shaped: plain functions, member
// function pointers, data member pointers (as zero-argument accessors), classes
// with a call operator, and one layer of reference, pointer or reference
// wrapper in front of those. The lookup order is fixed in shapeRules.
//
// # Errors
//
// Every rejection is a *ShapeError wrapping ErrShapeMismatch. The predicate
// queries in query.go are the exception: they answer false / zero for types
// that do not classify, so generic code can query arbitrary types.
package sig
