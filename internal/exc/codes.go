package exc

const (
	CodeUnknownFatal           = "F0000"
	CodeFileNotFound           = "F0001"
	CodePermissionDenied       = "F0002"
	CodeUnsupportedFileFormat  = "F0003"
	CodeEndOfInput             = "F0004"
	CodeInvalidState           = "F0005"
	CodePreprocessor           = "F0006"
	CodeMalformedMarker        = "F0007"
	CodeMalformedStatement     = "F0008"
	CodeUnexpectedStatement    = "F0009"
	CodeMalformedDeclaration   = "F0010"
	CodeUnknownAttribute       = "F0011"
	CodeMalformedAttributeList = "F0012"
	CodeMalformedVariable      = "F0013"
	CodeVisibilityConflict     = "F0014"
	CodeDuplicateAttribute     = "F0015"
	CodeMissingType            = "F0016"
	CodeInterfaceViolation     = "F0017"
	CodeMalformedDocumentation = "F0018"
	CodeRoutineNesting         = "F0019"
	CodeUsage                  = "F0020"
)

// Class groups codes by the kind of failure they describe.
type Class uint8

const (
	ClassUnknown Class = iota
	// ClassStructural means a statement matched no grammar alternative.
	ClassStructural
	// ClassDeclaration means an attribute or variable sub-expression is
	// malformed.
	ClassDeclaration
	// ClassInvariant means a resolved fact contradicts an earlier one.
	ClassInvariant
	// ClassEnvironment means the files or the preprocessor failed.
	ClassEnvironment
)

func (c Class) String() string {
	switch c {
	case ClassStructural:
		return "structural"
	case ClassDeclaration:
		return "declaration"
	case ClassInvariant:
		return "invariant"
	case ClassEnvironment:
		return "environment"
	default:
		return "unknown"
	}
}

var (
	defaultNonFatal = map[string]bool{}

	codeClasses = map[string]Class{
		CodeFileNotFound:           ClassEnvironment,
		CodePermissionDenied:       ClassEnvironment,
		CodeUnsupportedFileFormat:  ClassEnvironment,
		CodePreprocessor:           ClassEnvironment,
		CodeUsage:                  ClassEnvironment,
		CodeEndOfInput:             ClassStructural,
		CodeInvalidState:           ClassStructural,
		CodeMalformedMarker:        ClassStructural,
		CodeMalformedStatement:     ClassStructural,
		CodeUnexpectedStatement:    ClassStructural,
		CodeRoutineNesting:         ClassStructural,
		CodeMalformedDocumentation: ClassStructural,
		CodeMalformedDeclaration:   ClassDeclaration,
		CodeUnknownAttribute:       ClassDeclaration,
		CodeMalformedAttributeList: ClassDeclaration,
		CodeMalformedVariable:      ClassDeclaration,
		CodeVisibilityConflict:     ClassInvariant,
		CodeDuplicateAttribute:     ClassInvariant,
		CodeMissingType:            ClassInvariant,
		CodeInterfaceViolation:     ClassInvariant,
	}
)

// ClassOf returns the class a code belongs to.
func ClassOf(code string) Class {
	return codeClasses[code]
}
