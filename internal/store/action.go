package store

// Action is a request to transition the state tree. Each action is a
// plain payload struct; reducers switch on the concrete type. Actions a
// reducer does not recognize leave its slice untouched.
type Action interface {
	isAction()
}

// RecordFetchSucceeded delivers a raw criminal-record document from the
// network layer. The reducer normalizes it and merges it into the
// record slice; ingesting another document appends its cases to the
// existing record.
type RecordFetchSucceeded struct {
	Record Document
}

// EditEntityValue replaces one field of one entity in the record slice.
// EntityType names the flat collection ("cases", "charges", "sentences"
// or "cRecord").
type EditEntityValue struct {
	EntityType string
	EntityID   string
	Field      string
	Value      any
}

// ToggleEditing flips the editing flag of one case.
type ToggleEditing struct {
	CaseID string
}

// EditSentenceLength edits one field of a sentence's sentence_length
// sub-object.
type EditSentenceLength struct {
	SentenceID string
	Field      string
	Value      any
}

// AddEntity inserts a new entity into its collection and appends its id
// to the named list field of the named parent entity.
type AddEntity struct {
	EntityType      string
	Entity          Document
	ParentID        string
	ParentType      string
	ParentListField string
}

// NewPetition creates a petition from a seed document. A seed carrying
// its own id keeps it; otherwise the next unused sequential id is
// assigned. Embedded cases are normalized into the petition slice's own
// snapshot collections.
type NewPetition struct {
	Petition Document
}

// UpdatePetition deep-merges a partial update into an existing
// petition. Unknown petition ids are a silent no-op.
type UpdatePetition struct {
	PetitionID string
	Update     Document
}

// NewCaseForPetition attaches a case (and optionally a first charge) to
// a petition. Re-dispatching with identical arguments is idempotent:
// the case id appears in the petition's list exactly once.
type NewCaseForPetition struct {
	PetitionID   string
	CaseID       string
	CaseDefaults Document
	ChargeInfo   Document
}

// SetPetitionToEdit marks which petition the edit form is working on;
// nil clears it.
type SetPetitionToEdit struct {
	PetitionID *string
}

// DeletePetition removes a petition and its id from the ordered list.
// Its case/charge snapshots stay in the flat collections since other
// petitions may reference them. Deleting an absent id is a no-op.
type DeletePetition struct {
	PetitionID string
}

// GuessGradeSucceeded delivers the oracle's predicted grades for one
// charge, overwriting any previous prediction.
type GuessGradeSucceeded struct {
	ChargeID           string
	GradeProbabilities GradeProbabilities
}

// SourceRecordsFetchSucceeded merges source records returned by the
// upload or fetch endpoints into the source-record slice.
type SourceRecordsFetchSucceeded struct {
	SourceRecords []Document
}

func (RecordFetchSucceeded) isAction()        {}
func (EditEntityValue) isAction()             {}
func (ToggleEditing) isAction()               {}
func (EditSentenceLength) isAction()          {}
func (AddEntity) isAction()                   {}
func (NewPetition) isAction()                 {}
func (UpdatePetition) isAction()              {}
func (NewCaseForPetition) isAction()          {}
func (SetPetitionToEdit) isAction()           {}
func (DeletePetition) isAction()              {}
func (GuessGradeSucceeded) isAction()         {}
func (SourceRecordsFetchSucceeded) isAction() {}
