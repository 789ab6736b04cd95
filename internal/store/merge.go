package store

// copyDoc makes a shallow copy of a document. A nil input yields an
// empty, writable document.
func copyDoc(doc Document) Document {
	out := make(Document, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// copyCollection makes a shallow copy of a flat entity collection.
func copyCollection(coll map[string]Document) map[string]Document {
	out := make(map[string]Document, len(coll)+1)
	for k, v := range coll {
		out[k] = v
	}
	return out
}

// mergeCollections shallow-merges additions into a copy of base. New
// ids add entries; colliding ids overwrite, so re-ingesting the same
// docket number refreshes its data.
func mergeCollections(base, additions map[string]Document) map[string]Document {
	if len(additions) == 0 {
		return base
	}
	out := copyCollection(base)
	for id, entity := range additions {
		out[id] = entity
	}
	return out
}

// deepMerge merges update into base key by key, recursing when both
// sides hold a nested document under the same key and replacing the
// value otherwise. Neither input is mutated. A shallow merge here would
// silently destroy sibling fields of nested objects (updating
// attorney.organization must not discard attorney.full_name), which is
// why this exists as an explicit utility.
func deepMerge(base, update Document) Document {
	out := copyDoc(base)
	for key, value := range update {
		baseChild, baseIsDoc := out[key].(Document)
		updateChild, updateIsDoc := value.(Document)
		if baseIsDoc && updateIsDoc {
			out[key] = deepMerge(baseChild, updateChild)
			continue
		}
		out[key] = value
	}
	return out
}

// toStringSlice normalizes an id-list field, which may hold []string
// (built by reducers) or []any (decoded from JSON).
func toStringSlice(value any) []string {
	switch ids := value.(type) {
	case []string:
		return ids
	case []any:
		out := make([]string, 0, len(ids))
		for _, raw := range ids {
			if id, ok := raw.(string); ok {
				out = append(out, id)
			}
		}
		return out
	}
	return nil
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
