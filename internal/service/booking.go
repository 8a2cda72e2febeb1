package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/restaurant/internal/events"
	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/metrics"
)

const DefaultMaxBookingsPerUser = 10

type BookingService struct {
	Repo       *repo.GormRepo
	Events     events.Publisher
	MaxPerUser int
}

func (s *BookingService) limit() int {
	if s.MaxPerUser > 0 {
		return s.MaxPerUser
	}
	return DefaultMaxBookingsPerUser
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s id", ErrValidation, what)
	}
	return id, nil
}

// checkCapacity locks the user row; call it inside a transaction.
func (s *BookingService) checkCapacity(ctx context.Context, tx *repo.GormRepo, userID uuid.UUID) error {
	if _, err := tx.LockUser(ctx, userID); err != nil {
		return notFound(err, "user not found")
	}
	n, err := tx.CountActiveBookings(ctx, userID)
	if err != nil {
		return err
	}
	if n >= int64(s.limit()) {
		metrics.BookingsRejected.WithLabelValues("limit").Inc()
		return fmt.Errorf("%w: booking limit of %d reached", ErrConflict, s.limit())
	}
	return nil
}

func (s *BookingService) CreateBooking(ctx context.Context, req transport.CreateBookingRequest) (*transport.BookingDTO, error) {
	l := logging.FromContext(ctx).With("svc", "booking.create")

	userID, err := parseID(req.UserID, "user")
	if err != nil {
		return nil, err
	}
	date, err := transport.ParseBookingDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	tm, err := transport.ParseBookingTime(req.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	booking := models.TableBooking{
		UserID: userID,
		Date:   date,
		Time:   tm,
		Status: models.BookingPending,
	}
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if err := s.checkCapacity(ctx, tx, userID); err != nil {
			return err
		}
		return tx.CreateBooking(ctx, &booking)
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	publish(ctx, s.Events, events.TopicBookings, booking.ID.String(), events.Event{
		Type:   "booking_created",
		ID:     booking.ID.String(),
		UserID: userID.String(),
		Data:   map[string]any{"date": booking.Date, "time": booking.Time},
	})
	l.Infow("booking_created", "booking_id", booking.ID, "user_id", userID)

	dto := transport.ToBookingDTO(&booking, nil)
	return &dto, nil
}

func (s *BookingService) AssignTable(ctx context.Context, rawBookingID string, tableNumber int) (*transport.AssignTableResponse, error) {
	l := logging.FromContext(ctx).With("svc", "booking.assign_table")

	bookingID, err := parseID(rawBookingID, "booking")
	if err != nil {
		return nil, err
	}
	if tableNumber <= 0 {
		return nil, fmt.Errorf("%w: table_number must be > 0", ErrValidation)
	}

	var (
		resp    transport.AssignTableResponse
		created bool
	)
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		booking, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return notFound(err, "booking not found")
		}

		bound, err := tx.TablesForBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if len(bound) > 0 {
			resp = transport.AssignTableResponse{
				Message: "Booking already has a table assigned",
				Table:   transport.ToTableDTO(&bound[0]),
				Booking: transport.ToBookingDTO(booking, bound),
			}
			return nil
		}

		if booking.Status == models.BookingAvailable {
			return fmt.Errorf("%w: booking is not active", ErrConflict)
		}

		table, err := tx.GetTableByNumber(ctx, tableNumber)
		if err != nil {
			return notFound(err, fmt.Sprintf("table %d not found", tableNumber))
		}
		if table.IsBooked {
			return fmt.Errorf("%w: table %d is already booked for %s", ErrConflict, tableNumber, bookedDate(table, booking))
		}

		ok, err := tx.BindTable(ctx, table.ID, booking)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: table %d is already booked for %s", ErrConflict, tableNumber, booking.Date)
		}

		if booking.Status != models.BookingConfirmed {
			if err := tx.UpdateBookingStatus(ctx, bookingID, models.BookingConfirmed); err != nil {
				return err
			}
			booking.Status = models.BookingConfirmed
		}

		table, err = tx.GetTable(ctx, table.ID)
		if err != nil {
			return err
		}
		resp = transport.AssignTableResponse{
			Message: "Table assigned successfully",
			Table:   transport.ToTableDTO(table),
			Booking: transport.ToBookingDTO(booking, []models.Table{*table}),
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		metrics.TablesAssigned.Inc()
		publish(ctx, s.Events, events.TopicBookings, rawBookingID, events.Event{
			Type:   "table_assigned",
			ID:     resp.Booking.ID,
			UserID: resp.Booking.UserID,
			Data:   map[string]any{"table_number": tableNumber, "date": resp.Booking.Date},
		})
		l.Infow("table_assigned", "booking_id", bookingID, "table_number", tableNumber)
	}
	return &resp, nil
}

func bookedDate(t *models.Table, fallback *models.TableBooking) string {
	if t.BookingDate != nil {
		return *t.BookingDate
	}
	return fallback.Date
}

func (s *BookingService) UpdateBookingStatus(ctx context.Context, rawBookingID, rawStatus string) (*transport.BookingDTO, error) {
	bookingID, err := parseID(rawBookingID, "booking")
	if err != nil {
		return nil, err
	}
	status := models.BookingStatus(rawStatus)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be one of Available, Pending, Confirmed", ErrValidation)
	}

	var out transport.BookingDTO
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		booking, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return notFound(err, "booking not found")
		}
		if !canMoveBooking(booking.Status, status) {
			return fmt.Errorf("%w: cannot change booking status from %s to %s", ErrConflict, booking.Status, status)
		}

		if booking.Status != status {
			// reactivating counts against the limit again
			if booking.Status == models.BookingAvailable {
				if err := s.checkCapacity(ctx, tx, booking.UserID); err != nil {
					return err
				}
			}
			if status == models.BookingAvailable {
				if err := tx.ReleaseTablesForBooking(ctx, bookingID); err != nil {
					return err
				}
			}
			if err := tx.UpdateBookingStatus(ctx, bookingID, status); err != nil {
				return err
			}
			booking.Status = status
		}

		tables, err := tx.TablesForBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		out = transport.ToBookingDTO(booking, tables)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, rawBookingID string) error {
	bookingID, err := parseID(rawBookingID, "booking")
	if err != nil {
		return err
	}

	var userID uuid.UUID
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		booking, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return notFound(err, "booking not found")
		}
		userID = booking.UserID
		if err := tx.ReleaseTablesForBooking(ctx, bookingID); err != nil {
			return err
		}
		_, err = tx.DeleteBooking(ctx, bookingID)
		return err
	})
	if err != nil {
		return err
	}

	publish(ctx, s.Events, events.TopicBookings, rawBookingID, events.Event{
		Type:   "booking_deleted",
		ID:     bookingID.String(),
		UserID: userID.String(),
	})
	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, rawBookingID string) (*transport.BookingDTO, error) {
	bookingID, err := parseID(rawBookingID, "booking")
	if err != nil {
		return nil, err
	}
	booking, err := s.Repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking not found")
	}
	tables, err := s.Repo.TablesForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	dto := transport.ToBookingDTO(booking, tables)
	return &dto, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]transport.BookingDTO, error) {
	bookings, err := s.Repo.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	return s.withTables(ctx, bookings)
}

func (s *BookingService) ListBookingsByUser(ctx context.Context, rawUserID string) ([]transport.BookingDTO, error) {
	userID, err := parseID(rawUserID, "user")
	if err != nil {
		return nil, err
	}
	bookings, err := s.Repo.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withTables(ctx, bookings)
}

func (s *BookingService) withTables(ctx context.Context, bookings []models.TableBooking) ([]transport.BookingDTO, error) {
	ids := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	tables, err := s.Repo.TablesForBookings(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]transport.BookingDTO, 0, len(bookings))
	for i := range bookings {
		out = append(out, transport.ToBookingDTO(&bookings[i], tables[bookings[i].ID]))
	}
	return out, nil
}
