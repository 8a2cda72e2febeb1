package service

import "github.com/Skotchmaster/restaurant/internal/models"

var bookingTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingAvailable},
	models.BookingConfirmed: {models.BookingAvailable},
	models.BookingAvailable: {models.BookingPending},
}

// Sent never appears as a target here; only SendOrder sets it.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:   {models.OrderConfirmed, models.OrderCancelled, models.OrderDelivered},
	models.OrderConfirmed: {models.OrderDelivered, models.OrderCancelled},
	models.OrderSent:      {models.OrderDelivered},
}

func canMoveBooking(from, to models.BookingStatus) bool {
	if from == to {
		return true
	}
	for _, s := range bookingTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func canMoveOrder(from, to models.OrderStatus) bool {
	if from == to {
		return true
	}
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
