package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	cases := map[order.Status]string{
		order.Unknown:    "unknown",
		order.Pending:    "pending",
		order.Preparing:  "preparing",
		order.Ready:      "ready",
		order.Delivering: "delivering",
		order.Delivered:  "delivered",
		order.Problem:    "problem",
		order.Cancelled:  "cancelled",
	}
	for status, expected := range cases {
		assert.Equal(t, expected, status.String())
	}
	assert.Equal(t, "unknown", order.Status(99).String())
}

func TestStatusFromString(t *testing.T) {
	for _, code := range []string{"pending", "preparing", "ready", "delivering", "delivered", "problem", "cancelled"} {
		status, err := order.StatusFromString(code)
		require.NoError(t, err)
		assert.Equal(t, code, status.String())
	}

	_, err := order.StatusFromString("unknown")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = order.StatusFromString("shipped")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Validate(t *testing.T) {
	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(42).Validate())
	require.NoError(t, order.Pending.Validate())
	require.NoError(t, order.Cancelled.Validate())
}

func TestStatus_Classification(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.False(t, order.Problem.IsTerminal())

	assert.True(t, order.Pending.IsActive())
	assert.True(t, order.Problem.IsActive())
	assert.False(t, order.Delivered.IsActive())
	assert.False(t, order.Unknown.IsActive())
}

func TestDefaultTransitionTable(t *testing.T) {
	table := order.DefaultTransitionTable()

	t.Run("linear chain is the only path to delivered", func(t *testing.T) {
		chain := []order.Status{order.Pending, order.Preparing, order.Ready, order.Delivering, order.Delivered}
		for i := 0; i < len(chain)-1; i++ {
			assert.True(t, table.Allows(chain[i], chain[i+1]),
				"%s -> %s should be allowed", chain[i], chain[i+1])
		}

		// Non-adjacent jumps are rejected.
		assert.False(t, table.Allows(order.Pending, order.Ready))
		assert.False(t, table.Allows(order.Pending, order.Delivering))
		assert.False(t, table.Allows(order.Pending, order.Delivered))
		assert.False(t, table.Allows(order.Preparing, order.Delivering))
		assert.False(t, table.Allows(order.Ready, order.Delivered))
	})

	t.Run("every active state reaches problem and cancelled", func(t *testing.T) {
		for _, from := range []order.Status{order.Pending, order.Preparing, order.Ready, order.Delivering} {
			assert.True(t, table.Allows(from, order.Problem), "%s -> problem", from)
			assert.True(t, table.Allows(from, order.Cancelled), "%s -> cancelled", from)
		}
		assert.True(t, table.Allows(order.Problem, order.Cancelled))
	})

	t.Run("problem recovers to delivering", func(t *testing.T) {
		assert.True(t, table.Allows(order.Problem, order.Delivering))
		assert.False(t, table.Allows(order.Problem, order.Delivered))
	})

	t.Run("reset edges exist for non-pending active states", func(t *testing.T) {
		for _, from := range []order.Status{order.Preparing, order.Ready, order.Delivering, order.Problem} {
			assert.True(t, table.Allows(from, order.Pending), "%s -> pending", from)
		}
	})

	t.Run("terminal states have no outgoing edges", func(t *testing.T) {
		for _, to := range []order.Status{
			order.Pending, order.Preparing, order.Ready,
			order.Delivering, order.Delivered, order.Problem, order.Cancelled,
		} {
			assert.False(t, table.Allows(order.Delivered, to), "delivered -> %s", to)
			assert.False(t, table.Allows(order.Cancelled, to), "cancelled -> %s", to)
		}
	})

	t.Run("no self loops", func(t *testing.T) {
		for _, s := range []order.Status{
			order.Pending, order.Preparing, order.Ready,
			order.Delivering, order.Delivered, order.Problem, order.Cancelled,
		} {
			assert.False(t, table.Allows(s, s), "%s -> %s", s, s)
		}
	})
}

func TestTransitionTable_Check(t *testing.T) {
	table := order.DefaultTransitionTable()

	require.NoError(t, table.Check(order.Pending, order.Preparing))

	err := table.Check(order.Pending, order.Delivered)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)

	var transitionErr *errs.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, "pending", transitionErr.From)
	assert.Equal(t, "delivered", transitionErr.To)
}
