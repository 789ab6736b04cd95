// Package normalize converts nested criminal-record and petition documents
// into flat, id-indexed entity collections and back.
//
// Documents are plain map[string]any values, shaped like the JSON the
// record and petition services exchange. Normalizing walks a document
// according to a Schema, replaces embedded child objects with their
// identifiers, and collects every entity into type-partitioned
// collections. Denormalizing is the exact inverse.
package normalize

// Document is a nested record as exchanged with collaborating services.
type Document = map[string]any

// Entities holds flat entity collections, keyed by entity type name and
// then by entity identifier.
type Entities map[string]map[string]Document

// Schema declares one entity type: its collection name, which of its
// fields hold arrays of child entities, and how its identifier is
// derived. Schemas are static metadata; they carry no behavior beyond
// definition and are safe for concurrent use.
type Schema struct {
	name            string
	children        map[string]*Schema
	idFromAttribute bool
}

// NewSchema declares an entity type whose identifiers are derived with
// Identify (natural key, root sentinel, or positional).
func NewSchema(name string) *Schema {
	return &Schema{name: name, children: map[string]*Schema{}}
}

// NewIDAttributeSchema declares an entity type identified by its own
// "id" field. Used for petitions, whose ids are assigned by the caller.
func NewIDAttributeSchema(name string) *Schema {
	return &Schema{name: name, children: map[string]*Schema{}, idFromAttribute: true}
}

// Define declares that the named field of this entity holds an array of
// child entities. Returns the schema for chaining.
func (s *Schema) Define(field string, child *Schema) *Schema {
	s.children[field] = child
	return s
}

// Name returns the entity type's collection name.
func (s *Schema) Name() string {
	return s.name
}

// The entity types of the application. A criminal record owns cases,
// cases own charges, charges own sentences. Petitions own their own
// case snapshots, independent of the criminal record's collection.
var (
	SentenceSchema = NewSchema("sentences")
	ChargeSchema   = NewSchema("charges").Define("sentences", SentenceSchema)
	CaseSchema     = NewSchema("cases").Define("charges", ChargeSchema)
	CRecordSchema  = NewSchema("cRecord").Define("cases", CaseSchema)
	PetitionSchema = NewIDAttributeSchema("petitions").Define("cases", CaseSchema)
)
