package normalize

// Normalized is the output of Normalize: flat entity collections plus
// the identifier(s) of the root document(s). Result is a string when a
// single document was normalized and a []string when a list was.
type Normalized struct {
	Entities Entities
	Result   any
}

// ResultIDs returns the root identifiers regardless of whether a single
// document or a list was normalized.
func (n *Normalized) ResultIDs() []string {
	switch r := n.Result.(type) {
	case string:
		return []string{r}
	case []string:
		return r
	}
	return nil
}

// Normalize walks data according to the schema, replacing embedded
// child entities with their identifiers and collecting every entity
// into flat collections. data may be a single Document or a slice of
// Documents ([]Document or []any of maps).
//
// The input is never mutated; every collected entity is a copy with its
// computed "id" injected, and with "editing" set to false on entities
// reached through a field named "cases". If the same identifier is
// produced twice, the last occurrence wins silently.
func Normalize(data any, schema *Schema) *Normalized {
	n := &Normalized{Entities: Entities{}}

	if doc, ok := data.(Document); ok {
		n.Result = n.visit(doc, nil, "", 0, schema)
		return n
	}

	if docs := toDocumentSlice(data); docs != nil {
		ids := make([]string, len(docs))
		for i, doc := range docs {
			ids[i] = n.visit(doc, nil, "", i, schema)
		}
		n.Result = ids
		return n
	}

	n.Result = ""
	return n
}

// visit normalizes one document, inserts it into the collections, and
// returns its identifier. parent is the already-processed parent copy
// (carrying its "id"), key the parent field holding this value.
func (n *Normalized) visit(doc Document, parent Document, key string, index int, schema *Schema) string {
	var id string
	if schema.idFromAttribute {
		id, _ = doc["id"].(string)
	} else {
		id = Identify(doc, parent, key, index)
	}

	entity := make(Document, len(doc)+2)
	for k, v := range doc {
		entity[k] = v
	}
	if !schema.idFromAttribute {
		entity["id"] = id
	}
	// Every case entity starts out not being edited in the UI.
	if key == "cases" {
		entity["editing"] = false
	}

	for field, child := range schema.children {
		items := toDocumentSlice(entity[field])
		if items == nil {
			continue
		}
		childIDs := make([]string, len(items))
		for i, item := range items {
			childIDs[i] = n.visit(item, entity, field, i, child)
		}
		entity[field] = childIDs
	}

	collection := n.Entities[schema.name]
	if collection == nil {
		collection = map[string]Document{}
		n.Entities[schema.name] = collection
	}
	collection[id] = entity

	return id
}

// toDocumentSlice converts a value into a slice of documents, or nil if
// the value is not a homogeneous document list.
func toDocumentSlice(value any) []Document {
	switch items := value.(type) {
	case []Document:
		return items
	case []any:
		docs := make([]Document, len(items))
		for i, item := range items {
			doc, ok := item.(Document)
			if !ok {
				return nil
			}
			docs[i] = doc
		}
		return docs
	}
	return nil
}
