package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Skotchmaster/restaurant/internal/events"
	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/receipt"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/metrics"
)

// priceTolerance is how far a client-quoted item price may drift from the menu price.
const priceTolerance = 0.005

type ReceiptRenderer interface {
	Render(d receipt.Data) ([]byte, error)
}

type OrderService struct {
	Repo     *repo.GormRepo
	Events   events.Publisher
	Renderer ReceiptRenderer
	Store    receipt.Store
}

func (s *OrderService) PlaceOrder(ctx context.Context, req transport.PlaceOrderRequest) (*transport.OrderDTO, error) {
	l := logging.FromContext(ctx).With("svc", "order.place")

	userID, err := parseID(req.UserID, "user")
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	names := make([]string, 0, len(req.Items))
	for i := range req.Items {
		req.Items[i].Name = strings.TrimSpace(req.Items[i].Name)
		if req.Items[i].Name == "" {
			return nil, fmt.Errorf("%w: item name required", ErrValidation)
		}
		if req.Items[i].Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		names = append(names, req.Items[i].Name)
	}

	order := models.Order{
		UserID: userID,
		Status: models.OrderPending,
	}
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetUserByID(ctx, userID); err != nil {
			return notFound(err, "user not found")
		}

		foods, err := tx.FoodItemsByName(ctx, names)
		if err != nil {
			return err
		}

		var total float64
		for _, it := range req.Items {
			food, ok := foods[it.Name]
			if !ok {
				return fmt.Errorf("%w: food item %q not found", ErrNotFound, it.Name)
			}
			if it.Price != nil && math.Abs(*it.Price-food.Price) > priceTolerance {
				return fmt.Errorf("%w: price for %s does not match menu price %.2f", ErrValidation, it.Name, food.Price)
			}
			order.Items = append(order.Items, models.OrderItem{
				FoodID:    food.ID,
				Food:      food,
				Quantity:  it.Quantity,
				UnitPrice: food.Price,
			})
			total += food.Price * float64(it.Quantity)
		}
		order.TotalPrice = roundCents(total)

		return tx.CreateOrder(ctx, &order)
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	publish(ctx, s.Events, events.TopicOrders, order.ID.String(), events.Event{
		Type:   "order_placed",
		ID:     order.ID.String(),
		UserID: userID.String(),
		Data:   map[string]any{"total_price": order.TotalPrice, "items": len(order.Items)},
	})
	l.Infow("order_placed", "order_id", order.ID, "total_price", order.TotalPrice)

	dto := transport.ToOrderDTO(&order)
	return &dto, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, rawOrderID, rawStatus string) (*transport.OrderDTO, error) {
	orderID, err := parseID(rawOrderID, "order")
	if err != nil {
		return nil, err
	}
	status := models.OrderStatus(rawStatus)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be one of Pending, Confirmed, Cancelled, Delivered, Sent", ErrValidation)
	}

	var out transport.OrderDTO
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return notFound(err, "order not found")
		}
		if !canMoveOrder(order.Status, status) {
			return fmt.Errorf("%w: cannot change order status from %s to %s", ErrConflict, order.Status, status)
		}
		if order.Status != status {
			if err := tx.UpdateOrderStatus(ctx, orderID, status); err != nil {
				return err
			}
			order.Status = status
		}
		out = transport.ToOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicOrders, rawOrderID, events.Event{
		Type:   "order_status_changed",
		ID:     out.ID,
		UserID: out.UserID,
		Data:   map[string]any{"status": out.Status},
	})
	return &out, nil
}

// SendOrder marks a Pending order as Sent and stores exactly one receipt for it.
// The PDF is written before commit and removed again if the transaction fails.
func (s *OrderService) SendOrder(ctx context.Context, rawOrderID string) (*transport.SendOrderResponse, error) {
	l := logging.FromContext(ctx).With("svc", "order.send")

	orderID, err := parseID(rawOrderID, "order")
	if err != nil {
		return nil, err
	}

	var (
		out      transport.SendOrderResponse
		location string
	)
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return notFound(err, "order not found")
		}
		if order.Status != models.OrderPending {
			return fmt.Errorf("%w: order must be Pending to send, current status is %s", ErrConflict, order.Status)
		}
		exists, err := tx.ReceiptExists(ctx, orderID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: order already has a receipt", ErrConflict)
		}

		lines := make([]models.ReceiptLine, 0, len(order.Items))
		for _, it := range order.Items {
			lines = append(lines, models.ReceiptLine{Name: it.Food.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
		}
		snapshot, err := json.Marshal(lines)
		if err != nil {
			return err
		}

		rc := models.Receipt{
			ID:      uuid.New(),
			OrderID: orderID,
			Items:   datatypes.JSON(snapshot),
			Total:   order.TotalPrice,
		}

		pdf, err := s.Renderer.Render(receipt.Data{
			ReceiptID: rc.ID,
			OrderID:   orderID,
			Status:    string(models.OrderSent),
			Total:     order.TotalPrice,
			Lines:     lines,
			IssuedAt:  time.Now(),
		})
		if err != nil {
			return err
		}
		location, err = s.Store.Save(ctx, receipt.FileName(rc.ID), pdf)
		if err != nil {
			return err
		}
		rc.FilePath = location

		if err := tx.UpdateOrderStatus(ctx, orderID, models.OrderSent); err != nil {
			return err
		}
		if err := tx.CreateReceipt(ctx, &rc); err != nil {
			return duplicate(err, "order already has a receipt")
		}

		order.Status = models.OrderSent
		out = transport.SendOrderResponse{
			Message: "Order sent successfully",
			Order:   transport.ToOrderDTO(order),
			Receipt: transport.ToReceiptDTO(&rc),
		}
		return nil
	})
	if err != nil {
		if location != "" {
			if delErr := s.Store.Delete(ctx, location); delErr != nil {
				l.Warnw("receipt_cleanup_failed", "location", location, "error", delErr)
			}
		}
		return nil, err
	}

	metrics.ReceiptsGenerated.Inc()
	publish(ctx, s.Events, events.TopicOrders, rawOrderID, events.Event{
		Type:   "order_sent",
		ID:     out.Order.ID,
		UserID: out.Order.UserID,
		Data:   map[string]any{"receipt_id": out.Receipt.ID, "total_price": out.Order.TotalPrice},
	})
	l.Infow("order_sent", "order_id", orderID, "receipt_id", out.Receipt.ID)
	return &out, nil
}

func (s *OrderService) DownloadReceipt(ctx context.Context, rawOrderID string) (*transport.ReceiptDTO, error) {
	orderID, err := parseID(rawOrderID, "order")
	if err != nil {
		return nil, err
	}
	if _, err := s.Repo.GetOrder(ctx, orderID); err != nil {
		return nil, notFound(err, "order not found")
	}
	rc, err := s.Repo.GetReceiptByOrder(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "receipt not found")
	}
	dto := transport.ToReceiptDTO(rc)
	return &dto, nil
}

// OpenReceipt returns the receipt record and a reader over the stored PDF. The caller closes it.
func (s *OrderService) OpenReceipt(ctx context.Context, rawOrderID string) (*transport.ReceiptDTO, io.ReadCloser, error) {
	rc, err := s.DownloadReceipt(ctx, rawOrderID)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.Store.Open(ctx, rc.FilePath)
	if err != nil {
		if errors.Is(err, receipt.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: receipt file missing", ErrNotFound)
		}
		return nil, nil, err
	}
	return rc, body, nil
}

func (s *OrderService) GetOrder(ctx context.Context, rawOrderID string) (*transport.OrderDTO, error) {
	orderID, err := parseID(rawOrderID, "order")
	if err != nil {
		return nil, err
	}
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "order not found")
	}
	dto := transport.ToOrderDTO(order)
	return &dto, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID *uuid.UUID, offset, limit int) (int64, []transport.OrderDTO, error) {
	total, orders, err := s.Repo.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	return total, transport.ToOrderDTOs(orders), nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, rawOrderID string) error {
	orderID, err := parseID(rawOrderID, "order")
	if err != nil {
		return err
	}
	return s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.LockOrder(ctx, orderID); err != nil {
			return notFound(err, "order not found")
		}
		exists, err := tx.ReceiptExists(ctx, orderID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: sent orders cannot be deleted", ErrConflict)
		}
		return tx.DeleteOrder(ctx, orderID)
	})
}
