package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cpp-ledger/internal/application/ledger"
	"github.com/jhoicas/cpp-ledger/internal/domain"
	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
	"github.com/jhoicas/cpp-ledger/internal/domain/repository"
	"github.com/jhoicas/cpp-ledger/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// ItemUseCase administración mínima del catálogo de artículos. Crea el agregado
// con cantidad y costo en 0 (o un valor inicial); el motor de valoración es el
// único que los muta después.
type ItemUseCase struct {
	itemRepo repository.ItemRepository
	txRunner ledger.TxRunner
}

// NewItemUseCase construye el caso de uso de catálogo.
func NewItemUseCase(itemRepo repository.ItemRepository, txRunner ledger.TxRunner) *ItemUseCase {
	return &ItemUseCase{itemRepo: itemRepo, txRunner: txRunner}
}

// CreateItemInput datos para crear un artículo.
type CreateItemInput struct {
	CompanyID       string
	SKU             string
	Name            string
	Category        string
	InitialQuantity decimal.Decimal
	InitialCost     decimal.Decimal
	PerformedBy     string
}

// Create valida y persiste el artículo. SKU y nombre obligatorios; cantidad y
// costo iniciales no negativos, y costo 0 si la cantidad inicial es 0.
// Un saldo inicial positivo entra al libro como ajuste positivo en la misma
// transacción: reproducir el libro desde (0, 0) reconstruye el agregado
// también para artículos creados con saldo.
func (uc *ItemUseCase) Create(ctx context.Context, input CreateItemInput) (*entity.Item, error) {
	if strings.TrimSpace(input.SKU) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.InitialQuantity.LessThan(decimal.Zero) || input.InitialCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	cost := valuation.RoundCost(input.InitialCost)
	if input.InitialQuantity.IsZero() {
		cost = decimal.Zero
	}
	now := time.Now()
	item := &entity.Item{
		ID:              uuid.New().String(),
		CompanyID:       input.CompanyID,
		SKU:             strings.TrimSpace(input.SKU),
		Name:            strings.TrimSpace(input.Name),
		Category:        strings.TrimSpace(input.Category),
		QuantityOnHand:  input.InitialQuantity,
		AverageUnitCost: cost,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		_ repository.RecalculationRepository,
	) error {
		if err := itemRepo.Create(item); err != nil {
			return err
		}
		if item.QuantityOnHand.IsZero() {
			return nil
		}
		unitCost := cost
		return movRepo.Create(&entity.Movement{
			ID:               uuid.New().String(),
			CompanyID:        item.CompanyID,
			ItemID:           item.ID,
			Kind:             entity.KindAdjustmentIn,
			Quantity:         item.QuantityOnHand,
			UnitCost:         &unitCost,
			AverageCostAfter: cost,
			Reason:           "saldo inicial",
			PerformedBy:      input.PerformedBy,
			CreatedAt:        now,
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID obtiene un artículo de la empresa.
func (uc *ItemUseCase) GetByID(ctx context.Context, companyID, itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(companyID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// List lista artículos de la empresa con paginación.
func (uc *ItemUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Item, error) {
	return uc.itemRepo.ListByCompany(companyID, limit, offset)
}
