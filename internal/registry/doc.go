// Package registry is the single source of truth mapping a fully-qualified
// name (FQN) to its built entity.
//
// The registry is created once per run, populated by the entity builder,
// frozen when the build phase completes, and queried by the integration
// validator. Every operation is O(1) or O(n) over the registry size.
//
// FQNs match segment(.segment)* where a segment starts with a letter or an
// underscore followed by word characters. Registration rejects malformed
// names with ErrInvalidFQN and repeated names with ErrDuplicateFQN; the
// first registration always wins and is never replaced.
package registry
