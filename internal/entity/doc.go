// Package entity defines the canonical output of a specweaver run.
//
// An EntitySpec is built once per class found in a class-diagram block,
// registered once, and never mutated structurally afterwards. The only
// later annotation is the external-dependency set, appended by the
// integration validator.
//
// Key types:
//   - EntitySpec: FQN + structure (type parameters, members, relationships)
//   - Property, Method, Parameter: members with resolved-category tags
//   - Relationship: typed edge between two classes
package entity
