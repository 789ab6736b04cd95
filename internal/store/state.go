// Package store holds the application state tree and the pure reducer
// functions that are the only way to change it.
//
// Every transition is a total function of (state, action); unknown
// actions return the previous state untouched. Reducers never mutate
// the previous state: each level of nesting they touch is rebuilt with
// a shallow copy while untouched branches are shared with the prior
// state, keeping change detection downstream cheap.
package store

import "github.com/expungepa/petition-builder/internal/normalize"

// Document aliases the normalized document shape.
type Document = normalize.Document

// CRecordID keys the single criminal-record entity.
const CRecordID = normalize.RootID

// CRecordState is the flat criminal-record slice: the applicant's full
// record as assembled from one or more ingested documents.
type CRecordState struct {
	Charges   map[string]Document `json:"charges"`
	Cases     map[string]Document `json:"cases"`
	Sentences map[string]Document `json:"sentences"`
	CRecord   map[string]Document `json:"cRecord"`
}

// PetitionUpdates tracks whether a petition mutation is in flight.
type PetitionUpdates struct {
	UpdateInProgress bool `json:"updateInProgress"`
}

// PetitionEntities are the petition slice's own flat collections.
// Cases and charges here are snapshots copied into petitions; they are
// independent of the criminal-record slice so a petition's case data
// can be edited without touching the master record.
type PetitionEntities struct {
	Petitions map[string]Document `json:"petitions"`
	Cases     map[string]Document `json:"cases"`
	Charges   map[string]Document `json:"charges"`
}

// PetitionCollection is the flat store of all petitions plus the
// ordered list of petition ids and the id of the petition currently
// open in the edit form, if any.
type PetitionCollection struct {
	Entities          PetitionEntities `json:"entities"`
	PetitionIDs       []string         `json:"petitionIds"`
	EditingPetitionID *string          `json:"editingPetitionId"`
}

// PetitionsState is the petition slice.
type PetitionsState struct {
	PetitionUpdates    PetitionUpdates    `json:"petitionUpdates"`
	PetitionCollection PetitionCollection `json:"petitionCollection"`
}

// GradeProbabilities is an ordered list of predicted grades for one
// charge. Probabilities are in [0,1] and need not sum to 1; the oracle
// may return only its top candidates.
type GradeProbabilities []GradeProbability

// GradesState maps charge ids to their latest predicted grades.
type GradesState map[string]GradeProbabilities

// SourceRecordsState tracks the source documents (dockets, summary
// sheets) the record was assembled from, keyed by id with insertion
// order preserved in AllIDs.
type SourceRecordsState struct {
	AllIDs           []string            `json:"allIds"`
	AllSourceRecords map[string]Document `json:"allSourceRecords"`
}

// State is the whole application state tree. It is only ever replaced
// wholesale by Store.Dispatch; readers must treat it as immutable.
type State struct {
	CRecord       CRecordState       `json:"crecord"`
	Petitions     PetitionsState     `json:"petitions"`
	Grades        GradesState        `json:"grades"`
	SourceRecords SourceRecordsState `json:"sourceRecords"`
}

// InitialCRecordState returns the empty criminal-record slice.
func InitialCRecordState() CRecordState {
	return CRecordState{
		Charges:   map[string]Document{},
		Cases:     map[string]Document{},
		Sentences: map[string]Document{},
		CRecord:   map[string]Document{CRecordID: {"cases": []string{}}},
	}
}

// InitialPetitionsState returns the empty petition slice.
func InitialPetitionsState() PetitionsState {
	return PetitionsState{
		PetitionUpdates: PetitionUpdates{UpdateInProgress: false},
		PetitionCollection: PetitionCollection{
			Entities: PetitionEntities{
				Petitions: map[string]Document{},
				Cases:     map[string]Document{},
				Charges:   map[string]Document{},
			},
			PetitionIDs:       []string{},
			EditingPetitionID: nil,
		},
	}
}

// InitialState returns the empty state tree.
func InitialState() State {
	return State{
		CRecord:   InitialCRecordState(),
		Petitions: InitialPetitionsState(),
		Grades:    GradesState{},
		SourceRecords: SourceRecordsState{
			AllIDs:           []string{},
			AllSourceRecords: map[string]Document{},
		},
	}
}
