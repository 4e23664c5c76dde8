package cart

import "fooddash/internal/domain/model"

// Phase はconflictフローの状態。
type Phase string

const (
	PhaseIdle            Phase = "IDLE"
	PhasePendingConflict Phase = "PENDING_CONFLICT"
)

// Phase はconflictスロットから状態を求める。
func (s *Store) Phase() Phase {
	if s.state.Conflict.Pending {
		return PhasePendingConflict
	}
	return PhaseIdle
}

// Conflict は保留中のconflictを返す（無ければok=false）。
func (s *Store) Conflict() (model.ConflictState, bool) {
	st := s.State()
	return st.Conflict, st.Conflict.Pending
}
