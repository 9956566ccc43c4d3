package order

import "fulfillment/internal/pkg/errs"

// TransitionTable is the explicit edge set of the order lifecycle machine.
// It is injected into ChangeStatus rather than hardcoded on Status so that
// deployments can tighten or extend the default set without touching the
// aggregate. Missing source states have no outgoing edges.
type TransitionTable map[Status][]Status

// DefaultTransitionTable returns the verified edge set:
//
//   - the linear chain pending -> preparing -> ready -> delivering -> delivered
//   - every active state may move to problem and to cancelled
//   - problem may recover to delivering
//   - every active state except pending may be reset to pending
//     (the admin guard clears the driver assignment on that edge)
//
// delivered and cancelled are terminal.
func DefaultTransitionTable() TransitionTable {
	return TransitionTable{
		Pending:    {Preparing, Problem, Cancelled},
		Preparing:  {Ready, Problem, Cancelled, Pending},
		Ready:      {Delivering, Problem, Cancelled, Pending},
		Delivering: {Delivered, Problem, Cancelled, Pending},
		Problem:    {Delivering, Cancelled, Pending},
		Delivered:  {},
		Cancelled:  {},
	}
}

// Allows reports whether the edge from -> to exists in the table.
func (t TransitionTable) Allows(from Status, to Status) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Check returns nil when the edge exists and a structured
// InvalidTransitionError otherwise.
func (t TransitionTable) Check(from Status, to Status) error {
	if !t.Allows(from, to) {
		return errs.NewInvalidTransitionError(from.String(), to.String())
	}
	return nil
}
