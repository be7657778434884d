package primitive

import "strings"

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies the built-in type names a class diagram may use
// without declaring them.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (not built-in) value for KindEnum

	KindString
	KindInteger
	KindFloat
	KindDecimal
	KindBool
	KindTemporal
	KindBinary
	KindIdentifier
	KindVoid
	KindAny
	KindContainer // generic wrappers such as List, Map or Promise

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// builtins maps lower-cased names to their kind. Names come from the languages
// people usually sketch diagrams in (Java, TypeScript, Python, C#, Go).
var builtins = map[string]KindEnum{
	"string": KindString, "str": KindString, "char": KindString, "text": KindString,

	"int": KindInteger, "integer": KindInteger, "long": KindInteger, "short": KindInteger,
	"byte": KindInteger, "int8": KindInteger, "int16": KindInteger, "int32": KindInteger,
	"int64": KindInteger, "uint": KindInteger, "uint8": KindInteger, "uint16": KindInteger,
	"uint32": KindInteger, "uint64": KindInteger, "bigint": KindInteger,

	"float": KindFloat, "double": KindFloat, "float32": KindFloat, "float64": KindFloat,
	"number": KindFloat, "real": KindFloat,

	"decimal": KindDecimal, "money": KindDecimal,

	"bool": KindBool, "boolean": KindBool,

	"date": KindTemporal, "datetime": KindTemporal, "time": KindTemporal,
	"timestamp": KindTemporal, "duration": KindTemporal, "instant": KindTemporal,

	"bytes": KindBinary, "blob": KindBinary, "binary": KindBinary, "buffer": KindBinary,

	"uuid": KindIdentifier, "guid": KindIdentifier, "id": KindIdentifier,

	"void": KindVoid, "none": KindVoid, "null": KindVoid, "undefined": KindVoid, "never": KindVoid,

	"any": KindAny, "object": KindAny, "unknown": KindAny, "dynamic": KindAny, "symbol": KindAny,

	"list": KindContainer, "array": KindContainer, "set": KindContainer, "map": KindContainer,
	"dict": KindContainer, "record": KindContainer, "tuple": KindContainer, "optional": KindContainer,
	"promise": KindContainer, "future": KindContainer, "observable": KindContainer,
	"iterable": KindContainer, "iterator": KindContainer, "collection": KindContainer,
	"sequence": KindContainer, "queue": KindContainer, "stack": KindContainer,
	"partial": KindContainer, "readonly": KindContainer, "result": KindContainer,
	"hashmap": KindContainer, "arraylist": KindContainer, "hashset": KindContainer,
	"mapping": KindContainer, "task": KindContainer, "stream": KindContainer,
}

// FromName returns the kind of a built-in type name, or 0 if the name is not built-in.
// The match is case-insensitive.
func FromName(name string) KindEnum {
	return builtins[strings.ToLower(strings.TrimSpace(name))]
}

// IsBuiltin reports whether name is a built-in type name.
func IsBuiltin(name string) bool {
	return FromName(name) != 0
}

// IsContainer reports whether the kind wraps other types through generic arguments.
func (k KindEnum) IsContainer() bool {
	return k == KindContainer
}
