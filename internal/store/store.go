package store

import "sync"

// Store is the process-wide state container. All mutation goes through
// Dispatch, which serializes transitions so each one is atomic with
// respect to every other; there is no way for two transitions to
// interleave mid-update. Snapshots returned by State and Dispatch must
// be treated as read-only.
type Store struct {
	mu    sync.Mutex
	state State
}

// New creates a store holding the empty state tree.
func New() *Store {
	return &Store{state: InitialState()}
}

// Dispatch applies the action to every slice reducer and returns the
// resulting state snapshot.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = reduce(s.state, action)
	return s.state
}

// State returns the current state snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// reduce is the root reducer: each slice sees every action and ignores
// the ones it does not recognize.
func reduce(state State, action Action) State {
	return State{
		CRecord:       cRecordReducer(state.CRecord, action),
		Petitions:     petitionsReducer(state.Petitions, action),
		Grades:        gradesReducer(state.Grades, action),
		SourceRecords: sourceRecordsReducer(state.SourceRecords, action),
	}
}
