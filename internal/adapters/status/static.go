// Package status provides session status sources.
package status

import (
	"sync/atomic"

	"github.com/bft-labs/arscan/internal/domain"
)

// Static reports a fixed session state until Set changes it.
type Static struct {
	state atomic.Int32
}

// NewStatic creates a Static reporting s.
func NewStatic(s domain.SessionState) *Static {
	st := &Static{}
	st.Set(s)
	return st
}

// Status returns the current state.
func (s *Static) Status() domain.SessionState {
	return domain.SessionState(s.state.Load())
}

// Set replaces the reported state.
func (s *Static) Set(state domain.SessionState) {
	s.state.Store(int32(state))
}
