package store

import "github.com/expungepa/petition-builder/internal/normalize"

// cRecordReducer maintains the criminal-record slice: one cRecord
// entity (the root) referencing cases, which reference charges, which
// reference sentences.
func cRecordReducer(state CRecordState, action Action) CRecordState {
	switch a := action.(type) {
	case RecordFetchSucceeded:
		return recordFetchSucceeded(state, a)
	case EditEntityValue:
		return editEntityValue(state, a)
	case ToggleEditing:
		return toggleEditing(state, a)
	case EditSentenceLength:
		return editSentenceLength(state, a)
	case AddEntity:
		return addEntity(state, a)
	}
	return state
}

// recordFetchSucceeded normalizes the raw record and merges it in. The
// new root's case list is appended to the existing one, so a record can
// be assembled incrementally from several source documents; colliding
// entity ids are overwritten with the fresh data.
func recordFetchSucceeded(state CRecordState, a RecordFetchSucceeded) CRecordState {
	normalized := normalize.Normalize(a.Record, normalize.CRecordSchema)

	newRoot := normalized.Entities["cRecord"][CRecordID]
	newCaseIDs := toStringSlice(newRoot["cases"])

	oldRoot := state.CRecord[CRecordID]
	oldCaseIDs := toStringSlice(oldRoot["cases"])

	mergedRoot := copyDoc(oldRoot)
	caseIDs := make([]string, 0, len(oldCaseIDs)+len(newCaseIDs))
	caseIDs = append(caseIDs, oldCaseIDs...)
	caseIDs = append(caseIDs, newCaseIDs...)
	mergedRoot["cases"] = caseIDs

	return CRecordState{
		CRecord:   map[string]Document{CRecordID: mergedRoot},
		Cases:     mergeCollections(state.Cases, normalized.Entities["cases"]),
		Charges:   mergeCollections(state.Charges, normalized.Entities["charges"]),
		Sentences: mergeCollections(state.Sentences, normalized.Entities["sentences"]),
	}
}

// collection returns the flat collection for an entity type name, or
// nil for an unknown name.
func (s CRecordState) collection(name string) map[string]Document {
	switch name {
	case "cases":
		return s.Cases
	case "charges":
		return s.Charges
	case "sentences":
		return s.Sentences
	case "cRecord":
		return s.CRecord
	}
	return nil
}

// withCollection returns a copy of the slice with one collection
// replaced. Untouched collections are shared with the prior state.
func (s CRecordState) withCollection(name string, coll map[string]Document) CRecordState {
	switch name {
	case "cases":
		s.Cases = coll
	case "charges":
		s.Charges = coll
	case "sentences":
		s.Sentences = coll
	case "cRecord":
		s.CRecord = coll
	}
	return s
}

func editEntityValue(state CRecordState, a EditEntityValue) CRecordState {
	coll := state.collection(a.EntityType)
	entity, ok := coll[a.EntityID]
	if !ok {
		// Stale reference: nothing to edit.
		return state
	}

	newEntity := copyDoc(entity)
	newEntity[a.Field] = a.Value

	newColl := copyCollection(coll)
	newColl[a.EntityID] = newEntity

	return state.withCollection(a.EntityType, newColl)
}

func toggleEditing(state CRecordState, a ToggleEditing) CRecordState {
	caseEntity, ok := state.Cases[a.CaseID]
	if !ok {
		return state
	}

	editing, _ := caseEntity["editing"].(bool)
	newCase := copyDoc(caseEntity)
	newCase["editing"] = !editing

	newCases := copyCollection(state.Cases)
	newCases[a.CaseID] = newCase

	return state.withCollection("cases", newCases)
}

func editSentenceLength(state CRecordState, a EditSentenceLength) CRecordState {
	sentence, ok := state.Sentences[a.SentenceID]
	if !ok {
		return state
	}

	length, _ := sentence["sentence_length"].(Document)
	newLength := copyDoc(length)
	newLength[a.Field] = a.Value

	newSentence := copyDoc(sentence)
	newSentence["sentence_length"] = newLength

	newSentences := copyCollection(state.Sentences)
	newSentences[a.SentenceID] = newSentence

	return state.withCollection("sentences", newSentences)
}

// addEntity inserts the entity under its own id and appends the id to
// the parent's list field. There is no duplicate check against ids
// already present in that list.
func addEntity(state CRecordState, a AddEntity) CRecordState {
	id, _ := a.Entity["id"].(string)
	if id == "" {
		return state
	}

	parentColl := state.collection(a.ParentType)
	parent, ok := parentColl[a.ParentID]
	if !ok {
		return state
	}

	entityColl := state.collection(a.EntityType)
	if entityColl == nil {
		return state
	}

	newEntityColl := copyCollection(entityColl)
	newEntityColl[id] = a.Entity

	newParent := copyDoc(parent)
	siblings := toStringSlice(parent[a.ParentListField])
	newParent[a.ParentListField] = append(append(make([]string, 0, len(siblings)+1), siblings...), id)

	state = state.withCollection(a.EntityType, newEntityColl)

	newParentColl := copyCollection(state.collection(a.ParentType))
	newParentColl[a.ParentID] = newParent
	return state.withCollection(a.ParentType, newParentColl)
}
