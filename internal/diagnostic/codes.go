package diagnostic

// Diagnostic codes exposed to reporters and writers.
const (
	// CodeDuplicateFQN is reported when an entity FQN is registered twice.
	CodeDuplicateFQN = "DUPLICATE_FQN"
	// CodeInvalidFQN is reported when an FQN does not match segment(.segment)*.
	CodeInvalidFQN = "INVALID_FQN"
	// CodeParseError is reported when a diagram block cannot be parsed.
	// The message carries the absolute line number.
	CodeParseError = "PARSE_ERROR"
	// CodeDocumentError is reported when a document is structurally unparsable.
	CodeDocumentError = "DOCUMENT_ERROR"
	// CodeReadError is reported when a discovered file cannot be read.
	CodeReadError = "READ_ERROR"
	// CodeRegistryFrozen is reported when registration is attempted after the build phase.
	CodeRegistryFrozen = "REGISTRY_FROZEN"
	CodeBuildError     = "BUILD_ERROR"

	// CodeDanglingRelationship is a warning for a relationship whose endpoints
	// are both declared outside the document it appears in.
	CodeDanglingRelationship = "DANGLING_RELATIONSHIP"

	CodeNoCodeBlocks    = "NO_CODE_BLOCKS"
	CodeNoDiagramBlocks = "NO_DIAGRAM_BLOCKS"
)
