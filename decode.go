package schemakit

import (
	"errors"
	"fmt"
	"io"

	"github.com/reoring/schemakit/i18n"
	eng "github.com/reoring/schemakit/internal/engine"
	"github.com/reoring/schemakit/source/gojson"
)

// DecodeObject decodes a single JSON object preserving key order. Findings that
// do not abort decoding (duplicate keys under Warn) are returned as Issues;
// duplicate keys fold last-write-wins while keeping the first position. A
// non-object document, or any data after the object, is an error.
func DecodeObject(data []byte, opt DecodeOpt) (*Object, Issues, error) {
	var warnings Issues
	src := eng.WrapWithEnforcement(gojson.NewBytes(data), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		IssueSink: func(si eng.SimpleIssue) {
			warnings = AppendIssues(warnings, fromEngineIssue(si))
		},
	})
	v, err := eng.DecodeOrdered(src)
	if err != nil {
		var ie eng.IssueError
		if errors.As(err, &ie) {
			return nil, warnings, fmt.Errorf("%w: %w", ErrMalformedSchema, Issues{fromEngineIssue(ie.SimpleIssue)})
		}
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, warnings, fmt.Errorf("%w: %w", ErrMalformedSchema, err)
	}
	if tok, err := src.NextToken(); err == nil {
		return nil, warnings, fmt.Errorf("%w: unexpected data after the top-level value (token kind %d)", ErrMalformedSchema, tok.Kind)
	} else if !errors.Is(err, io.EOF) {
		return nil, warnings, fmt.Errorf("%w: after the top-level value: %w", ErrMalformedSchema, err)
	}
	members, ok := v.(eng.Members)
	if !ok {
		return nil, warnings, fmt.Errorf("%w: expected a JSON object, got %T", ErrMalformedSchema, v)
	}
	return objectFromMembers(members), warnings, nil
}

func objectFromMembers(ms eng.Members) *Object {
	obj := NewObject()
	for _, m := range ms {
		obj.Set(m.Key, fromEngineValue(m.Value))
	}
	return obj
}

func fromEngineValue(v any) any {
	switch t := v.(type) {
	case eng.Members:
		return objectFromMembers(t)
	case []any:
		for i := range t {
			t[i] = fromEngineValue(t[i])
		}
		return t
	default:
		return v
	}
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func fromEngineIssue(si eng.SimpleIssue) Issue {
	msg := i18n.T(si.Code, map[string]string{"pointer": si.Path})
	if msg == si.Code {
		msg = si.Message
	}
	return Issue{Pointer: si.Path, Code: si.Code, Message: msg}
}
