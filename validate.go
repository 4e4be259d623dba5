package schemakit

import (
	"strconv"

	"github.com/reoring/schemakit/i18n"
)

// Validate walks t depth-first (parent before children, siblings in order) and
// reports every field with a blank key and every nested field without children.
// An empty result means t may be compiled and persisted.
func Validate(t Tree) Issues {
	var iss Issues
	_ = t.Walk(func(p Path, n Node) error {
		if isBlank(n.Key()) {
			scope := "root"
			if len(p) > 1 {
				scope = "nested"
			}
			msg := i18n.T(CodeEmptyKey, map[string]string{"scope": scope})
			iss = AppendIssues(iss, p.Issue(CodeEmptyKey, msg, "scope", scope))
		}
		if n.Type() == TypeNested && n.Len() == 0 {
			msg := i18n.T(CodeEmptyNested, map[string]string{"key": n.Key()})
			iss = AppendIssues(iss, p.Issue(CodeEmptyNested, msg, "key", n.Key()))
		}
		return nil
	})
	return iss
}

// ValidateDepth reports nested fields whose compiled object would sit deeper
// than maxDepth (see Object.Depth). Only the outermost offending field of each
// branch is reported. maxDepth <= 0 disables the check.
func ValidateDepth(t Tree, maxDepth int) Issues {
	if maxDepth <= 0 {
		return nil
	}
	var iss Issues
	limit := strconv.Itoa(maxDepth)
	_ = t.Walk(func(p Path, n Node) error {
		if isBlank(n.Key()) {
			// not compiled
			return SkipChildren
		}
		if n.Type() == TypeNested && len(p)+1 > maxDepth {
			msg := i18n.T(CodeDepthExceeded, map[string]string{"limit": limit})
			iss = AppendIssues(iss, p.Issue(CodeDepthExceeded, msg, "limit", maxDepth))
			return SkipChildren
		}
		return nil
	})
	return iss
}

// ValidateTitle returns ErrMissingTitle for a blank schema title.
func ValidateTitle(title string) error {
	if isBlank(title) {
		return ErrMissingTitle
	}
	return nil
}
