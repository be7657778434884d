package common

import "strings"

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// PackageOf returns the package part of a fully-qualified name.
// Returns empty string if fqn has a single segment.
func PackageOf(fqn string) string {
	i := strings.LastIndex(fqn, ".")
	if i < 0 {
		return ""
	}

	return fqn[:i]
}

// SimpleName returns the last segment of a fully-qualified name.
func SimpleName(fqn string) string {
	return fqn[strings.LastIndex(fqn, ".")+1:]
}

// JoinFQN builds a fully-qualified name from a package and a type name.
// An empty package yields the bare name.
func JoinFQN(pkg, name string) string {
	if pkg == "" {
		return name
	}

	return pkg + "." + name
}
