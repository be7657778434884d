// Package build turns extracted class diagrams into registered entity specs.
//
// A Builder owns no state of its own beyond diagnostics: entities go into the
// registry and every type name it cannot resolve goes into the ledger, both
// supplied by the caller for the lifetime of one run.
//
// BuildAll registers in two phases so the outcome does not depend on which
// document mentions a class first:
//
//  1. every definition (a class with a body, members, a stereotype or type
//     parameters) of every document, documents in path order;
//  2. every bare declaration ("class Foo") whose FQN is still free, as a
//     reference entity.
//
// Two definitions of the same FQN are a DUPLICATE_FQN error on the later one.
// A bare declaration of an FQN that is already registered is not an error.
package build
