// Package schemakit is an editing engine for nested field schemas.
//
// A schema is edited as a Tree: an ordered forest of fields, each with a key,
// a type (string, number, boolean, objectId, float or nested) and a lock flag.
// Fields are addressed by Path, the child indices leading to them. Trees are
// persistent values; AddField, UpdateField, RemoveField and ToggleLock return a
// new Tree and leave the receiver untouched.
//
// Compile flattens a Tree into an Object, the insertion-ordered mapping that is
// persisted and previewed; Decompile rebuilds an editable Tree from it.
// Validate reports blank keys and empty nested groups as Issues.
//
// Persistence lives in package store and the submission flow in package
// editor.
//
// Typical usage:
//
//	t, _ := schemakit.AddField(schemakit.Tree{}, nil)
//	t, _ = schemakit.UpdateField(t, schemakit.Path{0}, schemakit.PatchKey("name"))
//	if iss := schemakit.Validate(t); len(iss) > 0 {
//		return iss
//	}
//	preview, _ := schemakit.PreviewJSON(t)
package schemakit
