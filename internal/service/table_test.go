package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/transport"
)

func TestCreateTable(t *testing.T) {
	svc := &TableService{Repo: newTestRepo(t)}
	ctx := context.Background()

	tb, err := svc.CreateTable(ctx, transport.CreateTableRequest{TableNumber: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, tb.TableNumber)
	assert.False(t, tb.IsBooked)
	assert.Equal(t, "Available", tb.BookingStatus)
	assert.Nil(t, tb.BookingID)

	_, err = svc.CreateTable(ctx, transport.CreateTableRequest{TableNumber: 4})
	require.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.CreateTable(ctx, transport.CreateTableRequest{TableNumber: -1})
	require.ErrorIs(t, err, ErrValidation)
}

func TestFreeTable_LeavesBookingAlone(t *testing.T) {
	r := newTestRepo(t)
	tables := &TableService{Repo: r}
	bookings := &BookingService{Repo: r}
	ctx := context.Background()

	u := seedUser(t, r, "diner@example.com")
	tb := seedTable(t, r, 9)
	seedTable(t, r, 10)

	b, err := bookings.CreateBooking(ctx, transport.CreateBookingRequest{UserID: u.ID.String(), Date: "24-12-2025", Time: "20:15"})
	require.NoError(t, err)
	_, err = bookings.AssignTable(ctx, b.ID, 9)
	require.NoError(t, err)

	free, err := tables.GetFreeTables(ctx)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, 10, free[0].TableNumber)

	got, err := tables.FreeTable(ctx, tb.ID.String())
	require.NoError(t, err)
	assert.False(t, got.IsBooked)
	assert.Nil(t, got.BookingID)
	assert.Nil(t, got.UserID)
	assert.Nil(t, got.BookingDate)
	assert.Nil(t, got.BookingTime)
	assert.Equal(t, "Available", got.BookingStatus)

	booking, err := bookings.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Confirmed", booking.Status)
	assert.Empty(t, booking.Tables)

	free, err = tables.GetFreeTables(ctx)
	require.NoError(t, err)
	assert.Len(t, free, 2)

	_, err = tables.FreeTable(ctx, uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)
	_, err = tables.GetTable(ctx, "7")
	require.ErrorIs(t, err, ErrValidation)

	all, err := tables.ListTables(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 9, all[0].TableNumber)
}
