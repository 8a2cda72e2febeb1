package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/transport"
)

type orderFixture struct {
	svc      *OrderService
	events   *fakePublisher
	store    *memStore
	renderer *stubRenderer
	user     *models.User
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	r := newTestRepo(t)
	f := &orderFixture{
		events:   &fakePublisher{},
		store:    newMemStore(),
		renderer: &stubRenderer{},
	}
	f.svc = &OrderService{Repo: r, Events: f.events, Renderer: f.renderer, Store: f.store}
	f.user = seedUser(t, r, "diner@example.com")
	seedFood(t, r, "Burger", "Mains", 5.0)
	seedFood(t, r, "Fries", "Sides", 2.5)
	return f
}

func (f *orderFixture) place(t *testing.T) *transport.OrderDTO {
	t.Helper()
	o, err := f.svc.PlaceOrder(context.Background(), transport.PlaceOrderRequest{
		UserID: f.user.ID.String(),
		Items: []transport.OrderItemRequest{
			{Name: "Burger", Quantity: 2},
			{Name: "Fries", Quantity: 1},
		},
	})
	require.NoError(t, err)
	return o
}

func TestPlaceOrder_TotalFromMenuPrices(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	bogus := 6.0
	_, err := f.svc.PlaceOrder(ctx, transport.PlaceOrderRequest{
		UserID: f.user.ID.String(),
		Items: []transport.OrderItemRequest{
			{Name: "Burger", Quantity: 2, Price: &bogus},
			{Name: "Fries", Quantity: 1},
		},
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "price for Burger does not match menu price 5.00")
	assert.Empty(t, f.events.types())

	quoted := 5.004
	o, err := f.svc.PlaceOrder(ctx, transport.PlaceOrderRequest{
		UserID: f.user.ID.String(),
		Items: []transport.OrderItemRequest{
			{Name: "Burger", Quantity: 2, Price: &quoted},
			{Name: " Fries ", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 12.5, o.TotalPrice)
	assert.Equal(t, "Pending", o.Status)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Burger", o.Items[0].Name)
	assert.Equal(t, 5.0, o.Items[0].UnitPrice)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, []string{"order_placed"}, f.events.types())

	got, err := f.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.TotalPrice)
	assert.Len(t, got.Items, 2)
}

func TestPlaceOrder_TotalIsSumOfLines(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	seedFood(t, f.svc.Repo, "Soup", "Starters", 3.33)
	seedFood(t, f.svc.Repo, "Cake", "Desserts", 4.1)

	o, err := f.svc.PlaceOrder(ctx, transport.PlaceOrderRequest{
		UserID: f.user.ID.String(),
		Items: []transport.OrderItemRequest{
			{Name: "Soup", Quantity: 3},
			{Name: "Cake", Quantity: 7},
		},
	})
	require.NoError(t, err)

	var want float64
	for _, it := range o.Items {
		want += it.UnitPrice * float64(it.Quantity)
	}
	assert.InDelta(t, want, o.TotalPrice, 0.005)
	assert.Equal(t, 38.69, o.TotalPrice)
}

func TestPlaceOrder_Errors(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  transport.PlaceOrderRequest
		want error
	}{
		{name: "bad user id", req: transport.PlaceOrderRequest{UserID: "x", Items: []transport.OrderItemRequest{{Name: "Burger", Quantity: 1}}}, want: ErrValidation},
		{name: "no items", req: transport.PlaceOrderRequest{UserID: f.user.ID.String()}, want: ErrValidation},
		{name: "zero quantity", req: transport.PlaceOrderRequest{UserID: f.user.ID.String(), Items: []transport.OrderItemRequest{{Name: "Burger", Quantity: 0}}}, want: ErrValidation},
		{name: "blank name", req: transport.PlaceOrderRequest{UserID: f.user.ID.String(), Items: []transport.OrderItemRequest{{Name: " ", Quantity: 1}}}, want: ErrValidation},
		{name: "unknown user", req: transport.PlaceOrderRequest{UserID: uuid.NewString(), Items: []transport.OrderItemRequest{{Name: "Burger", Quantity: 1}}}, want: ErrNotFound},
		{name: "unknown food", req: transport.PlaceOrderRequest{UserID: f.user.ID.String(), Items: []transport.OrderItemRequest{{Name: "Burger", Quantity: 1}, {Name: "Pizza", Quantity: 1}}}, want: ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.PlaceOrder(ctx, tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}

	total, orders, err := f.svc.ListOrders(ctx, nil, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}

func TestSendOrder_ProducesOneReceipt(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	o := f.place(t)

	resp, err := f.svc.SendOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sent", resp.Order.Status)
	assert.Equal(t, o.ID, resp.Receipt.OrderID)
	assert.Equal(t, 12.5, resp.Receipt.Total)
	assert.Equal(t, "mem://"+resp.Receipt.ID+".pdf", resp.Receipt.FilePath)
	assert.Contains(t, f.events.types(), "order_sent")

	stored, err := f.svc.Repo.GetReceiptByOrder(ctx, uuid.MustParse(o.ID))
	require.NoError(t, err)
	var lines []models.ReceiptLine
	require.NoError(t, json.Unmarshal(stored.Items, &lines))
	require.Len(t, lines, 2)
	assert.ElementsMatch(t, []string{"Burger", "Fries"}, []string{lines[0].Name, lines[1].Name})

	_, err = f.svc.SendOrder(ctx, o.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, f.renderer.calls)
	assert.Len(t, f.store.files, 1)

	rc, body, err := f.svc.OpenReceipt(ctx, o.ID)
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-"+rc.ID, string(data))
}

func TestSendOrder_RequiresPending(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	o := f.place(t)

	_, err := f.svc.UpdateOrderStatus(ctx, o.ID, "Confirmed")
	require.NoError(t, err)

	_, err = f.svc.SendOrder(ctx, o.ID)
	require.ErrorIs(t, err, ErrConflict)
	assert.Zero(t, f.renderer.calls)

	_, err = f.svc.DownloadReceipt(ctx, o.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.SendOrder(ctx, uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSendOrder_RenderFailureRollsBack(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	o := f.place(t)
	f.renderer.err = errors.New("font missing")

	_, err := f.svc.SendOrder(ctx, o.ID)
	require.Error(t, err)

	got, err := f.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pending", got.Status)
	assert.Empty(t, f.store.files)
}

func TestSendOrder_ReceiptInsertFailureRemovesStoredFile(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	o := f.place(t)

	err := f.svc.Repo.DB.Callback().Create().Before("gorm:create").Register("test:fail_receipts", func(db *gorm.DB) {
		if db.Statement.Table == "receipts" {
			_ = db.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	_, err = f.svc.SendOrder(ctx, o.ID)
	require.ErrorContains(t, err, "disk full")

	assert.Equal(t, 1, f.store.saves)
	assert.Empty(t, f.store.files)

	got, err := f.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pending", got.Status)
	_, err = f.svc.Repo.GetReceiptByOrder(ctx, uuid.MustParse(o.ID))
	require.Error(t, err)
	assert.NotContains(t, f.events.types(), "order_sent")
}

func TestUpdateOrderStatus_Transitions(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	o := f.place(t)

	_, err := f.svc.UpdateOrderStatus(ctx, o.ID, "Shipped")
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.UpdateOrderStatus(ctx, o.ID, "Sent")
	require.ErrorIs(t, err, ErrConflict)

	got, err := f.svc.UpdateOrderStatus(ctx, o.ID, "Confirmed")
	require.NoError(t, err)
	assert.Equal(t, "Confirmed", got.Status)

	_, err = f.svc.UpdateOrderStatus(ctx, o.ID, "Pending")
	require.ErrorIs(t, err, ErrConflict)

	got, err = f.svc.UpdateOrderStatus(ctx, o.ID, "Delivered")
	require.NoError(t, err)
	assert.Equal(t, "Delivered", got.Status)

	_, err = f.svc.UpdateOrderStatus(ctx, o.ID, "Cancelled")
	require.ErrorIs(t, err, ErrConflict)
}

func TestDeleteOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	draft := f.place(t)
	require.NoError(t, f.svc.DeleteOrder(ctx, draft.ID))
	_, err := f.svc.GetOrder(ctx, draft.ID)
	require.ErrorIs(t, err, ErrNotFound)

	sent := f.place(t)
	_, err = f.svc.SendOrder(ctx, sent.ID)
	require.NoError(t, err)
	require.ErrorIs(t, f.svc.DeleteOrder(ctx, sent.ID), ErrConflict)

	require.ErrorIs(t, f.svc.DeleteOrder(ctx, uuid.NewString()), ErrNotFound)
}

func TestListOrders_FiltersByUser(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	other := seedUser(t, f.svc.Repo, "other@example.com")

	f.place(t)
	f.place(t)
	_, err := f.svc.PlaceOrder(ctx, transport.PlaceOrderRequest{
		UserID: other.ID.String(),
		Items:  []transport.OrderItemRequest{{Name: "Fries", Quantity: 4}},
	})
	require.NoError(t, err)

	total, orders, err := f.svc.ListOrders(ctx, nil, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, orders, 3)

	total, orders, err = f.svc.ListOrders(ctx, &other.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, 10.0, orders[0].TotalPrice)

	total, orders, err = f.svc.ListOrders(ctx, nil, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, orders, 1)
}
