// Package order contains the order aggregate and its lifecycle state machine.
//
// An Order is created once, atomically, with its items and an initial history
// entry, and is never physically deleted; cancellation is a terminal status.
// Status changes go through ChangeStatus, which consults an explicit
// TransitionTable and applies per-actor guards: drivers can only touch orders
// they own (claiming unassigned orders when moving them to delivering or
// delivered), administrators may reset an order to pending, which clears the
// driver assignment, and internal callers pass through unguarded.
//
// The aggregate tracks history entries appended since it was loaded separately
// from the persisted ones, so repositories can insert exactly the new rows.
package order
