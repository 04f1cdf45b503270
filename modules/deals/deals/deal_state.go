package deals

import (
	"github.com/cockroachdb/errors"
)

var ErrInvalidDealState = errors.New("invalid deal state")

// DealState is the lifecycle state of a deal. A deal is Open from creation
// until settlement closes it; a Closed slot can be reopened by a fresh
// listing with the same terms.
type DealState string

const (
	DealStateOpen   DealState = "open"
	DealStateClosed DealState = "closed"
)

func NewDealState(s string) (DealState, error) {
	state := DealState(s)
	if !state.IsValid() {
		return "", errors.Wrapf(ErrInvalidDealState, "unknown deal state %q", s)
	}
	return state, nil
}

func (s DealState) IsValid() bool {
	switch s {
	case DealStateOpen, DealStateClosed:
		return true
	}
	return false
}

func (s DealState) String() string {
	return string(s)
}

func (s DealState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *DealState) UnmarshalText(text []byte) error {
	state, err := NewDealState(string(text))
	if err != nil {
		return errors.WithStack(err)
	}
	*s = state
	return nil
}
