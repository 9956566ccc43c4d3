package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

func testItem(t *testing.T, name string, quantity int, unitPrice float64) order.Item {
	t.Helper()
	item, err := order.NewItem(
		kernel.NewUUID(), name, quantity, "kg", unitPrice, float64(quantity)*unitPrice)
	require.NoError(t, err)
	return item
}

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	items := []order.Item{
		testItem(t, "Oranges", 2, 60),
		testItem(t, "Apples", 1, 60),
	}
	o, err := order.NewOrder(
		kernel.NewUUID(), "Chen Li", "0912345678", "100 Market Rd, Taichung",
		items, 180, 60, 240, "cash", testNow.AddDate(0, 0, 1), false, testNow)
	require.NoError(t, err)
	return o
}

func TestNewItem(t *testing.T) {
	t.Run("valid item", func(t *testing.T) {
		item := testItem(t, "Oranges", 2, 60)
		assert.Equal(t, "Oranges", item.Name())
		assert.Equal(t, 2, item.Quantity())
		assert.InDelta(t, 120, item.LineTotal(), 0.001)
		require.NoError(t, item.Validate())
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), "Oranges", 0, "kg", 60, 0)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), "Oranges", 1, "kg", -5, -5)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("line total must match quantity times price", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), "Oranges", 2, "kg", 60, 100)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var item order.Item
		require.ErrorIs(t, item.Validate(), order.ErrItemIsNotConstructed)
	})
}

func TestNewOrder(t *testing.T) {
	t.Run("valid order starts pending with one history entry", func(t *testing.T) {
		o := testOrder(t)

		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Driver())
		require.Len(t, o.History(), 1)
		assert.Equal(t, order.Pending, o.History()[0].Status)
		assert.Equal(t, testNow, o.History()[0].At)
		require.Len(t, o.UncommittedHistory(), 1)
		require.NoError(t, o.Validate())
	})

	t.Run("subtotal must match items", func(t *testing.T) {
		items := []order.Item{testItem(t, "Oranges", 2, 60)}
		_, err := order.NewOrder(
			kernel.NewUUID(), "Chen Li", "0912345678", "100 Market Rd",
			items, 150, 60, 210, "cash", testNow, false, testNow)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("total must equal subtotal plus fee", func(t *testing.T) {
		items := []order.Item{testItem(t, "Oranges", 2, 60)}
		_, err := order.NewOrder(
			kernel.NewUUID(), "Chen Li", "0912345678", "100 Market Rd",
			items, 120, 60, 200, "cash", testNow, false, testNow)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("tolerates rounding noise within epsilon", func(t *testing.T) {
		items := []order.Item{testItem(t, "Oranges", 2, 60)}
		_, err := order.NewOrder(
			kernel.NewUUID(), "Chen Li", "0912345678", "100 Market Rd",
			items, 120.004, 60, 180.01, "cash", testNow, false, testNow)
		require.NoError(t, err)
	})

	t.Run("empty items rejected", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "Chen Li", "0912345678", "100 Market Rd",
			nil, 0, 0, 0, "cash", testNow, false, testNow)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("missing contact fields rejected", func(t *testing.T) {
		items := []order.Item{testItem(t, "Oranges", 1, 60)}
		_, err := order.NewOrder(
			kernel.NewUUID(), "", "", "",
			items, 60, 0, 60, "cash", testNow, false, testNow)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("unconstructed order fails validation", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_ChangeStatus_Table(t *testing.T) {
	table := order.DefaultTransitionTable()

	t.Run("allowed edge appends exactly one history entry", func(t *testing.T) {
		o := testOrder(t)
		before := len(o.History())

		err := o.ChangeStatus(order.Preparing, "packing started", order.SystemActor{}, table, testNow.Add(time.Minute))
		require.NoError(t, err)

		assert.Equal(t, order.Preparing, o.Status())
		require.Len(t, o.History(), before+1)
		last := o.History()[len(o.History())-1]
		assert.Equal(t, order.Preparing, last.Status)
		assert.Equal(t, "packing started", last.Note)
	})

	t.Run("rejected edge leaves the order unchanged", func(t *testing.T) {
		o := testOrder(t)
		before := len(o.History())

		err := o.ChangeStatus(order.Delivered, "", order.SystemActor{}, table, testNow)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)

		assert.Equal(t, order.Pending, o.Status())
		assert.Len(t, o.History(), before)
	})

	t.Run("every table edge succeeds from its source state", func(t *testing.T) {
		for from, targets := range table {
			for _, to := range targets {
				o := restoredOrderInStatus(t, from, nil)
				err := o.ChangeStatus(to, "", order.SystemActor{}, table, testNow)
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, o.Status())
				require.Len(t, o.UncommittedHistory(), 1)
			}
		}
	})

	t.Run("every non-edge fails and preserves status", func(t *testing.T) {
		all := []order.Status{
			order.Pending, order.Preparing, order.Ready,
			order.Delivering, order.Delivered, order.Problem, order.Cancelled,
		}
		for _, from := range all {
			for _, to := range all {
				if table.Allows(from, to) {
					continue
				}
				o := restoredOrderInStatus(t, from, nil)
				err := o.ChangeStatus(to, "", order.SystemActor{}, table, testNow)
				require.ErrorIs(t, err, errs.ErrInvalidTransition, "%s -> %s", from, to)
				assert.Equal(t, from, o.Status())
				assert.Empty(t, o.UncommittedHistory())
			}
		}
	})
}

func TestOrder_ChangeStatus_DriverGuard(t *testing.T) {
	table := order.DefaultTransitionTable()

	t.Run("driver claims unassigned order when delivering", func(t *testing.T) {
		o := restoredOrderInStatus(t, order.Ready, nil)
		driverID := kernel.NewUUID()

		err := o.ChangeStatus(order.Delivering, "", order.DriverActor{ID: driverID}, table, testNow)
		require.NoError(t, err)
		require.NotNil(t, o.Driver())
		assert.True(t, o.Driver().IsEqual(driverID))
	})

	t.Run("different driver on claimed order fails", func(t *testing.T) {
		driverA := kernel.NewUUID()
		driverB := kernel.NewUUID()
		o := restoredOrderInStatus(t, order.Delivering, &driverA)

		err := o.ChangeStatus(order.Delivered, "", order.DriverActor{ID: driverB}, table, testNow)
		require.ErrorIs(t, err, order.ErrAlreadyClaimed)
		assert.Equal(t, order.Delivering, o.Status())
		assert.True(t, o.Driver().IsEqual(driverA))
	})

	t.Run("assigned driver completes delivery", func(t *testing.T) {
		driverID := kernel.NewUUID()
		o := restoredOrderInStatus(t, order.Delivering, &driverID)

		err := o.ChangeStatus(order.Delivered, "", order.DriverActor{ID: driverID}, table, testNow)
		require.NoError(t, err)
		assert.Equal(t, order.Delivered, o.Status())
	})

	t.Run("unassigned driver cannot use non-delivery edges", func(t *testing.T) {
		o := restoredOrderInStatus(t, order.Pending, nil)

		err := o.ChangeStatus(order.Preparing, "", order.DriverActor{ID: kernel.NewUUID()}, table, testNow)
		require.ErrorIs(t, err, order.ErrNotAssignedToDriver)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("driver with zero id is rejected", func(t *testing.T) {
		o := restoredOrderInStatus(t, order.Ready, nil)

		err := o.ChangeStatus(order.Delivering, "", order.DriverActor{}, table, testNow)
		require.Error(t, err)
	})
}

func TestOrder_ChangeStatus_AdminGuard(t *testing.T) {
	table := order.DefaultTransitionTable()

	t.Run("admin reset to pending clears driver assignment", func(t *testing.T) {
		driverID := kernel.NewUUID()
		o := restoredOrderInStatus(t, order.Delivering, &driverID)

		err := o.ChangeStatus(order.Pending, "re-dispatch", order.AdminActor{}, table, testNow)
		require.NoError(t, err)
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.Driver())
	})

	t.Run("admin on other edges keeps the driver", func(t *testing.T) {
		driverID := kernel.NewUUID()
		o := restoredOrderInStatus(t, order.Delivering, &driverID)

		err := o.ChangeStatus(order.Problem, "address unreachable", order.AdminActor{}, table, testNow)
		require.NoError(t, err)
		require.NotNil(t, o.Driver())
	})
}

func TestOrder_ChangeStatus_NilActor(t *testing.T) {
	o := testOrder(t)
	err := o.ChangeStatus(order.Preparing, "", nil, order.DefaultTransitionTable(), testNow)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestOrder_MarkGeocoded(t *testing.T) {
	o := testOrder(t)
	require.Nil(t, o.Location())

	p, err := kernel.NewGeoPoint(24.162, 120.685)
	require.NoError(t, err)

	at := testNow.Add(time.Minute)
	require.NoError(t, o.MarkGeocoded(p, at))
	require.NotNil(t, o.Location())
	require.NotNil(t, o.GeocodedAt())
	assert.Equal(t, at, *o.GeocodedAt())

	var zero kernel.GeoPoint
	require.Error(t, o.MarkGeocoded(zero, at))
}

func TestRestoreOrder(t *testing.T) {
	t.Run("restored aggregate has no uncommitted history", func(t *testing.T) {
		o := restoredOrderInStatus(t, order.Ready, nil)
		assert.Empty(t, o.UncommittedHistory())
		assert.NotEmpty(t, o.History())
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), "Chen Li", "0912345678", "100 Market Rd",
			nil, nil, order.Unknown, nil, 0, 0, 0, "cash", nil,
			testNow, false, false, testNow, testNow, 1, nil)
		require.Error(t, err)
	})
}

func restoredOrderInStatus(t *testing.T, status order.Status, driverID *kernel.UUID) *order.Order {
	t.Helper()
	items := []order.Item{testItem(t, "Oranges", 2, 60)}
	o, err := order.RestoreOrder(
		kernel.NewUUID(), "Chen Li", "0912345678", "100 Market Rd, Taichung",
		nil, nil, status, items, 120, 60, 180, "cash", driverID,
		testNow.AddDate(0, 0, 1), false, false, testNow, testNow, 1,
		[]order.HistoryEntry{{Status: status, At: testNow}})
	require.NoError(t, err)
	return o
}
