package schemakit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPath reports a path that does not resolve in the current tree.
	ErrInvalidPath = errors.New("schemakit: invalid path")
	// ErrUnknownType reports a field type outside the closed set.
	ErrUnknownType = errors.New("schemakit: unknown field type")
	// ErrFieldLocked reports a key or type change on a locked field.
	ErrFieldLocked = errors.New("schemakit: field is locked")
	// ErrMissingTitle reports a blank schema title.
	ErrMissingTitle = errors.New("schemakit: schema title is required")
	// ErrFieldValidationFailed is matched by a non-empty list of tree issues.
	ErrFieldValidationFailed = errors.New("schemakit: field validation failed")
	// ErrEmptySchema reports a compiled schema without a single named field.
	ErrEmptySchema = errors.New("schemakit: at least one field with a name is required")
	// ErrDuplicateTitle reports a title already used by another entry.
	ErrDuplicateTitle = errors.New("schemakit: duplicate schema title")
	// ErrNotFound reports an unknown entry id.
	ErrNotFound = errors.New("schemakit: schema not found")
	// ErrMalformedSchema reports persisted schema data that cannot be decoded.
	ErrMalformedSchema = errors.New("schemakit: malformed schema data")
	// ErrSchemaTooDeep reports a schema nested beyond the configured decode depth.
	ErrSchemaTooDeep = errors.New("schemakit: schema nested too deep")
)

// Issue codes
const (
	CodeEmptyKey      = "empty_key"
	CodeEmptyNested   = "empty_nested"
	CodeDuplicateKey  = "duplicate_key"
	CodeDepthExceeded = "depth_exceeded"
)

// Issue is a single structural finding.
type Issue struct {
	Path    Path   // Tree position, empty for findings outside the tree.
	Pointer string // JSON Pointer for decode findings (for example: /address/city).
	Code    string
	Message string
	// Params carries structured parameters (for example {"scope":"nested"})
	// for i18n.
	Params map[string]any
}

// Where renders the location of the issue.
func (it Issue) Where() string {
	if it.Pointer != "" {
		return it.Pointer
	}
	return it.Path.String()
}

// Issues is an ordered collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. empty_key at /1/0
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Where())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is lets errors.Is(err, ErrFieldValidationFailed) match a non-empty list of
// tree issues. Decode findings (those carrying a Pointer) do not match.
func (iss Issues) Is(target error) bool {
	if target != ErrFieldValidationFailed || len(iss) == 0 {
		return false
	}
	for _, it := range iss {
		if it.Pointer != "" {
			return false
		}
	}
	return true
}

// Err returns iss as an error, or nil when there are no issues.
func (iss Issues) Err() error {
	if len(iss) == 0 {
		return nil
	}
	return iss
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func invalidPath(p Path, depth int, reason string) error {
	return fmt.Errorf("%w %s: %s at depth %d", ErrInvalidPath, p, reason, depth)
}
