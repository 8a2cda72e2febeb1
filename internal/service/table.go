package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/transport"
)

type TableService struct {
	Repo *repo.GormRepo
}

func (s *TableService) CreateTable(ctx context.Context, req transport.CreateTableRequest) (*transport.TableDTO, error) {
	if req.TableNumber <= 0 {
		return nil, fmt.Errorf("%w: table_number must be > 0", ErrValidation)
	}

	taken, err := s.Repo.TableNumberTaken(ctx, req.TableNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: table %d already exists", ErrAlreadyExists, req.TableNumber)
	}

	table := models.Table{
		TableNumber:   req.TableNumber,
		BookingStatus: models.BookingAvailable,
	}
	if err := s.Repo.CreateTable(ctx, &table); err != nil {
		return nil, duplicate(err, fmt.Sprintf("table %d already exists", req.TableNumber))
	}
	dto := transport.ToTableDTO(&table)
	return &dto, nil
}

// FreeTable clears the binding. The booking that held the table keeps its status.
func (s *TableService) FreeTable(ctx context.Context, rawTableID string) (*transport.TableDTO, error) {
	tableID, err := parseID(rawTableID, "table")
	if err != nil {
		return nil, err
	}

	var out transport.TableDTO
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetTable(ctx, tableID); err != nil {
			return notFound(err, "table not found")
		}
		if err := tx.ReleaseTable(ctx, tableID); err != nil {
			return err
		}
		table, err := tx.GetTable(ctx, tableID)
		if err != nil {
			return err
		}
		out = transport.ToTableDTO(table)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *TableService) GetTable(ctx context.Context, rawTableID string) (*transport.TableDTO, error) {
	tableID, err := parseID(rawTableID, "table")
	if err != nil {
		return nil, err
	}
	table, err := s.Repo.GetTable(ctx, tableID)
	if err != nil {
		return nil, notFound(err, "table not found")
	}
	dto := transport.ToTableDTO(table)
	return &dto, nil
}

func (s *TableService) ListTables(ctx context.Context) ([]transport.TableDTO, error) {
	tables, err := s.Repo.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	return transport.ToTableDTOs(tables), nil
}

func (s *TableService) GetFreeTables(ctx context.Context) ([]transport.TableDTO, error) {
	tables, err := s.Repo.ListFreeTables(ctx)
	if err != nil {
		return nil, err
	}
	return transport.ToTableDTOs(tables), nil
}
