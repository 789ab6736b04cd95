package store

// sourceRecordsReducer tracks the source documents the record was
// assembled from. Records merge by id; first appearance fixes their
// position in the ordered list.
func sourceRecordsReducer(state SourceRecordsState, action Action) SourceRecordsState {
	a, ok := action.(SourceRecordsFetchSucceeded)
	if !ok || len(a.SourceRecords) == 0 {
		return state
	}

	newIDs := append(make([]string, 0, len(state.AllIDs)+len(a.SourceRecords)), state.AllIDs...)
	newRecords := copyCollection(state.AllSourceRecords)

	for _, record := range a.SourceRecords {
		id, _ := record["id"].(string)
		if id == "" {
			continue
		}
		if _, seen := newRecords[id]; !seen {
			newIDs = append(newIDs, id)
		}
		newRecords[id] = record
	}

	return SourceRecordsState{AllIDs: newIDs, AllSourceRecords: newRecords}
}

// SourceRecordList flattens the slice back into an ordered list of
// source-record documents.
func SourceRecordList(state SourceRecordsState) []Document {
	out := make([]Document, 0, len(state.AllIDs))
	for _, id := range state.AllIDs {
		if record, ok := state.AllSourceRecords[id]; ok {
			out = append(out, record)
		}
	}
	return out
}
