package store

import (
	"fmt"
	"strconv"

	"github.com/expungepa/petition-builder/internal/normalize"
)

// petitionsReducer maintains the petition slice. Petitions own copies
// of their case data, normalized into the slice's own collections, so
// editing a petition's snapshot never disturbs the master record.
func petitionsReducer(state PetitionsState, action Action) PetitionsState {
	switch a := action.(type) {
	case NewPetition:
		return newPetition(state, a)
	case UpdatePetition:
		return updatePetition(state, a)
	case NewCaseForPetition:
		return newCaseForPetition(state, a)
	case SetPetitionToEdit:
		state.PetitionCollection.EditingPetitionID = a.PetitionID
		return state
	case DeletePetition:
		return deletePetition(state, a)
	}
	return state
}

// nextPetitionID returns the smallest non-negative integer string not
// already in use, so deleting petition "0" and creating a new one can
// reuse the id without ever duplicating an entry.
func nextPetitionID(coll PetitionCollection) string {
	for candidate := 0; ; candidate++ {
		id := strconv.Itoa(candidate)
		if _, taken := coll.Entities.Petitions[id]; taken {
			continue
		}
		if containsID(coll.PetitionIDs, id) {
			continue
		}
		return id
	}
}

func newPetition(state PetitionsState, a NewPetition) PetitionsState {
	id, _ := a.Petition["id"].(string)
	if id == "" {
		id = nextPetitionID(state.PetitionCollection)
	}

	seed := copyDoc(a.Petition)
	seed["id"] = id

	normalized := normalize.Normalize(seed, normalize.PetitionSchema)
	entities := state.PetitionCollection.Entities

	newIDs := append(append(make([]string, 0, len(state.PetitionCollection.PetitionIDs)+1),
		state.PetitionCollection.PetitionIDs...), id)

	state.PetitionCollection = PetitionCollection{
		Entities: PetitionEntities{
			Petitions: mergeCollections(entities.Petitions, normalized.Entities["petitions"]),
			Cases:     mergeCollections(entities.Cases, normalized.Entities["cases"]),
			Charges:   mergeCollections(entities.Charges, normalized.Entities["charges"]),
		},
		PetitionIDs:       newIDs,
		EditingPetitionID: &id,
	}
	return state
}

func updatePetition(state PetitionsState, a UpdatePetition) PetitionsState {
	petition, ok := state.PetitionCollection.Entities.Petitions[a.PetitionID]
	if !ok {
		// Updating an unknown petition is a documented no-op.
		return state
	}

	newPetitions := copyCollection(state.PetitionCollection.Entities.Petitions)
	newPetitions[a.PetitionID] = deepMerge(petition, a.Update)

	state.PetitionCollection.Entities.Petitions = newPetitions
	return state
}

func newCaseForPetition(state PetitionsState, a NewCaseForPetition) PetitionsState {
	petition, ok := state.PetitionCollection.Entities.Petitions[a.PetitionID]
	if !ok {
		return state
	}

	caseDoc := deepMerge(Document{
		"id":            a.CaseID,
		"docket_number": a.CaseID,
		"editing":       false,
	}, a.CaseDefaults)

	entities := state.PetitionCollection.Entities

	newCharges := entities.Charges
	if len(a.ChargeInfo) > 0 {
		chargeID := fmt.Sprintf("%scharges@0", a.CaseID)
		charge := copyDoc(a.ChargeInfo)
		charge["id"] = chargeID
		caseDoc["charges"] = []string{chargeID}

		newCharges = copyCollection(entities.Charges)
		newCharges[chargeID] = charge
	}

	newCases := copyCollection(entities.Cases)
	newCases[a.CaseID] = caseDoc

	newPetitions := entities.Petitions
	caseIDs := toStringSlice(petition["cases"])
	if !containsID(caseIDs, a.CaseID) {
		newPetition := copyDoc(petition)
		newPetition["cases"] = append(append(make([]string, 0, len(caseIDs)+1), caseIDs...), a.CaseID)

		newPetitions = copyCollection(entities.Petitions)
		newPetitions[a.PetitionID] = newPetition
	}

	state.PetitionCollection.Entities = PetitionEntities{
		Petitions: newPetitions,
		Cases:     newCases,
		Charges:   newCharges,
	}
	return state
}

// deletePetition drops the petition and its id. Its case and charge
// snapshots are deliberately left behind: other petitions may still
// reference them, and orphaned entities are harmless.
func deletePetition(state PetitionsState, a DeletePetition) PetitionsState {
	if _, ok := state.PetitionCollection.Entities.Petitions[a.PetitionID]; !ok {
		if !containsID(state.PetitionCollection.PetitionIDs, a.PetitionID) {
			// Idempotent: deleting an absent petition changes nothing.
			return state
		}
	}

	newPetitions := copyCollection(state.PetitionCollection.Entities.Petitions)
	delete(newPetitions, a.PetitionID)

	state.PetitionCollection.Entities.Petitions = newPetitions
	state.PetitionCollection.PetitionIDs = removeID(state.PetitionCollection.PetitionIDs, a.PetitionID)

	if editing := state.PetitionCollection.EditingPetitionID; editing != nil && *editing == a.PetitionID {
		state.PetitionCollection.EditingPetitionID = nil
	}
	return state
}
