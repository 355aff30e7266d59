package integration

import "strings"

// MapFields transforms an entity attribute set into the ERP payload using a
// declarative field mapping table.
//
// An empty table is the identity transform: the attributes are returned
// verbatim so an integration can be wired before its mappings are authored.
// Otherwise only mapped fields are copied; each target path may contain dots
// ("vendor.name") which build or reuse nested objects, with the final
// segment receiving the value. Unmapped source fields are dropped.
func MapFields(attributes map[string]any, mappings map[string]string) map[string]any {
	if len(mappings) == 0 {
		out := make(map[string]any, len(attributes))
		for k, v := range attributes {
			out[k] = v
		}
		return out
	}

	out := make(map[string]any)
	for sourceField, targetPath := range mappings {
		value, ok := lookup(attributes, sourceField)
		if !ok {
			continue
		}
		setPath(out, targetPath, value)
	}
	return out
}

// lookup resolves a source field, trying the literal key first and then
// walking dotted segments through nested objects.
func lookup(attributes map[string]any, field string) (any, bool) {
	if v, ok := attributes[field]; ok {
		return v, true
	}
	if !strings.Contains(field, ".") {
		return nil, false
	}
	segments := strings.Split(field, ".")
	current := attributes
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	v, ok := current[segments[len(segments)-1]]
	return v, ok
}

// setPath writes value at a dotted path, creating intermediate objects.
// An intermediate segment that already holds a non-object value is replaced.
func setPath(obj map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := obj
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}
