// Package resolve classifies the type expressions of class members and
// resolves the custom names they mention.
//
// Resolve is pure: it reads the in-document classes and the registry but
// never writes anywhere. Names it cannot find are returned as deferrals and
// the caller decides where to record them.
//
// Classification of an expression, outermost node first:
//
//	string, int, List ...   primitive (built-in names, never deferred)
//	T[] / []T               array, element resolved recursively
//	Name<A, B>              generic, outer name and every argument resolved independently
//	A | B, A or B           union, every member resolved independently
//	T (class type param)    typeparam
//	anything else           custom, looked up or deferred
//
// Malformed expressions are treated as a single custom name.
package resolve
