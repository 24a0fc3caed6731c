package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cpp-ledger/internal/application/dto"
	"github.com/jhoicas/cpp-ledger/internal/application/ledger"
	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
)

// LedgerHandler maneja las mutaciones del motor de valoración (protegido).
type LedgerHandler struct {
	engine *ledger.Engine
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(engine *ledger.Engine) *LedgerHandler {
	return &LedgerHandler{engine: engine}
}

// RegisterEntry godoc
// @Summary      Registrar entrada de inventario (recalcula CPP)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterEntryRequest  true  "item_id, quantity, unit_cost, kind opcional"
// @Success      201   {object}  dto.EntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ledger/entries [post]
func (h *LedgerHandler) RegisterEntry(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.engine.ProcessEntry(c.Context(), ledger.EntryInput{
		CompanyID: companyID,
		ItemID:    in.ItemID,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Kind:      entity.MovementKind(in.Kind),
		Ref: entity.MovementReference{
			// La bodega del colaborador es destino en una entrada
			ToWarehouseID: in.WarehouseID,
			ToLocationID:  in.LocationID,
			ReferenceType: in.ReferenceType,
			ReferenceID:   in.ReferenceID,
			Reason:        in.Reason,
			PerformedBy:   userID,
		},
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.EntryResponse{
		MovementID:     res.MovementID,
		NewAverageCost: res.NewAverageCost,
		NewQuantity:    res.NewQuantity,
		NewTotalValue:  res.NewTotalValue,
	})
}

// RegisterExit godoc
// @Summary      Registrar salida de inventario al CPP vigente
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterExitRequest  true  "item_id, quantity, kind opcional"
// @Success      201   {object}  dto.ExitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/exits [post]
func (h *LedgerHandler) RegisterExit(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterExitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.engine.ProcessExit(c.Context(), ledger.ExitInput{
		CompanyID: companyID,
		ItemID:    in.ItemID,
		Quantity:  in.Quantity,
		Kind:      entity.MovementKind(in.Kind),
		Ref: entity.MovementReference{
			// La bodega del colaborador es origen en una salida
			FromWarehouseID: in.WarehouseID,
			FromLocationID:  in.LocationID,
			ReferenceType:   in.ReferenceType,
			ReferenceID:     in.ReferenceID,
			Reason:          in.Reason,
			PerformedBy:     userID,
		},
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ExitResponse{
		MovementID:        res.MovementID,
		CostOfExit:        res.CostOfExit,
		AverageCost:       res.AverageCost,
		RemainingQuantity: res.RemainingQuantity,
		RemainingValue:    res.RemainingValue,
	})
}

// RegisterAdjustment godoc
// @Summary      Registrar ajuste de inventario (delta con signo)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterAdjustmentRequest  true  "item_id, quantity_delta, unit_cost opcional para deltas positivos"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/adjustments [post]
func (h *LedgerHandler) RegisterAdjustment(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ref := entity.MovementReference{
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Reason:        in.Reason,
		PerformedBy:   userID,
	}
	if in.QuantityDelta.Sign() > 0 {
		ref.ToWarehouseID = in.WarehouseID
		ref.ToLocationID = in.LocationID
	} else {
		ref.FromWarehouseID = in.WarehouseID
		ref.FromLocationID = in.LocationID
	}
	res, err := h.engine.ProcessAdjustment(c.Context(), ledger.AdjustmentInput{
		CompanyID:     companyID,
		ItemID:        in.ItemID,
		QuantityDelta: in.QuantityDelta,
		UnitCost:      in.UnitCost,
		Ref:           ref,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	out := dto.AdjustmentResponse{Kind: string(res.Kind)}
	if res.Entry != nil {
		out.Entry = &dto.EntryResponse{
			MovementID:     res.Entry.MovementID,
			NewAverageCost: res.Entry.NewAverageCost,
			NewQuantity:    res.Entry.NewQuantity,
			NewTotalValue:  res.Entry.NewTotalValue,
		}
	}
	if res.Exit != nil {
		out.Exit = &dto.ExitResponse{
			MovementID:        res.Exit.MovementID,
			CostOfExit:        res.Exit.CostOfExit,
			AverageCost:       res.Exit.AverageCost,
			RemainingQuantity: res.Exit.RemainingQuantity,
			RemainingValue:    res.Exit.RemainingValue,
		}
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterTransfer godoc
// @Summary      Registrar traslado entre bodegas (neutro en cantidad y costo)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterTransferRequest  true  "item_id, quantity, from_warehouse_id, to_warehouse_id"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/transfers [post]
func (h *LedgerHandler) RegisterTransfer(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.engine.ProcessTransfer(c.Context(), ledger.TransferInput{
		CompanyID: companyID,
		ItemID:    in.ItemID,
		Quantity:  in.Quantity,
		Ref: entity.MovementReference{
			FromWarehouseID: in.FromWarehouseID,
			FromLocationID:  in.FromLocationID,
			ToWarehouseID:   in.ToWarehouseID,
			ToLocationID:    in.ToLocationID,
			ReferenceType:   in.ReferenceType,
			ReferenceID:     in.ReferenceID,
			Reason:          in.Reason,
			PerformedBy:     userID,
		},
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		MovementID:  res.MovementID,
		Quantity:    res.Quantity,
		AverageCost: res.AverageCost,
	})
}

// Recalculate godoc
// @Summary      Reproducir el libro completo del artículo y corregir agregado e histórico
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del artículo"
// @Success      200  {object}  dto.RecalculateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/items/{id}/recalculate [post]
func (h *LedgerHandler) Recalculate(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	res, err := h.engine.Recalculate(c.Context(), companyID, c.Params("id"), userID)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.RecalculateResponse{
		ItemID:           res.ItemID,
		Quantity:         res.Quantity,
		AverageCost:      res.AverageCost,
		TotalValue:       res.TotalValue,
		EntriesReplayed:  res.EntriesReplayed,
		EntriesRewritten: res.EntriesRewritten,
	})
}
