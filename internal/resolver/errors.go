package resolver

import "fmt"

// ErrorKind classifies a resolution failure. Resolution failures carry
// structured context (the failing require string, the package involved,
// etc.) rather than being formatted strings, so a caller can branch on
// Kind without parsing messages.
type ErrorKind uint8

const (
	AbsolutePath ErrorKind = iota
	NoImport
	NoRequireFrom
	NoPackageRequireFrom
	RelativeOutsidePackage
	ExportsResolutionFailed
	MissingEntries
	FilesOutsideProject
	InvalidOverride
	FileInfoErrors
	FileInfoFailed
)

func (k ErrorKind) String() string {
	switch k {
	case AbsolutePath:
		return "absolute-path"
	case NoImport:
		return "no-import"
	case NoRequireFrom:
		return "no-require-from"
	case NoPackageRequireFrom:
		return "no-package-require-from"
	case RelativeOutsidePackage:
		return "relative-outside-package"
	case ExportsResolutionFailed:
		return "exports-resolution-failed"
	case MissingEntries:
		return "missing-entries"
	case FilesOutsideProject:
		return "files-outside-project"
	case InvalidOverride:
		return "invalid-override"
	case FileInfoErrors:
		return "file-info-errors"
	case FileInfoFailed:
		return "file-info-failed"
	default:
		return "unknown"
	}
}

// ResolveError is the single error type every resolution failure returns.
// Context carries whatever data is relevant to that Kind (e.g. "require",
// "package", "file").
type ResolveError struct {
	Kind    ErrorKind
	Context map[string]string
}

// NewError constructs a classified *ResolveError for callers outside this
// package that need to report one of this taxonomy's kinds themselves —
// e.g. the CLI config loader rejecting a package-override value that is
// neither a string nor `false` before it ever reaches the resolver.
func NewError(kind ErrorKind, kv ...string) *ResolveError {
	return newErr(kind, kv...)
}

func newErr(kind ErrorKind, kv ...string) *ResolveError {
	ctx := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		ctx[kv[i]] = kv[i+1]
	}
	return &ResolveError{Kind: kind, Context: ctx}
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Context)
}
