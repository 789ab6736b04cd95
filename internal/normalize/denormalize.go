package normalize

import "fmt"

// MissingEntityError reports a denormalization lookup that failed to
// find an identifier referenced by a parent entity. It signals a broken
// invariant upstream; it never occurs when the collections were
// produced by Normalize and not tampered with.
type MissingEntityError struct {
	Type string
	ID   string
}

func (e *MissingEntityError) Error() string {
	return fmt.Sprintf("no %s entity with id %q", e.Type, e.ID)
}

// Denormalize reconstructs nested documents from flat entity
// collections. result is the identifier (string) or identifiers
// ([]string or []any of strings) to start from, as returned by
// Normalize.
//
// The whole call fails with a *MissingEntityError as soon as any
// referenced identifier is absent from the collections; no partial
// document is returned.
func Denormalize(result any, schema *Schema, entities Entities) (any, error) {
	switch ids := result.(type) {
	case string:
		return denormalizeOne(ids, schema, entities)
	case []string:
		docs := make([]Document, len(ids))
		for i, id := range ids {
			doc, err := denormalizeOne(id, schema, entities)
			if err != nil {
				return nil, err
			}
			docs[i] = doc
		}
		return docs, nil
	case []any:
		docs := make([]Document, len(ids))
		for i, raw := range ids {
			id, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("result entry %d is not an identifier", i)
			}
			doc, err := denormalizeOne(id, schema, entities)
			if err != nil {
				return nil, err
			}
			docs[i] = doc
		}
		return docs, nil
	}
	return nil, fmt.Errorf("result must be an identifier or a list of identifiers, got %T", result)
}

// DenormalizeList is Denormalize for a list of root identifiers,
// returning the documents directly.
func DenormalizeList(ids []string, schema *Schema, entities Entities) ([]Document, error) {
	docs, err := Denormalize(ids, schema, entities)
	if err != nil {
		return nil, err
	}
	return docs.([]Document), nil
}

func denormalizeOne(id string, schema *Schema, entities Entities) (Document, error) {
	entity, ok := entities[schema.name][id]
	if !ok {
		return nil, &MissingEntityError{Type: schema.name, ID: id}
	}

	doc := make(Document, len(entity))
	for k, v := range entity {
		doc[k] = v
	}

	for field, child := range schema.children {
		childIDs := toIDSlice(doc[field])
		if childIDs == nil {
			continue
		}
		children := make([]Document, len(childIDs))
		for i, childID := range childIDs {
			childDoc, err := denormalizeOne(childID, child, entities)
			if err != nil {
				return nil, err
			}
			children[i] = childDoc
		}
		doc[field] = children
	}

	return doc, nil
}

// toIDSlice converts a value into a slice of identifiers, or nil if the
// value is not a list of strings.
func toIDSlice(value any) []string {
	switch ids := value.(type) {
	case []string:
		return ids
	case []any:
		out := make([]string, len(ids))
		for i, raw := range ids {
			id, ok := raw.(string)
			if !ok {
				return nil
			}
			out[i] = id
		}
		return out
	}
	return nil
}
