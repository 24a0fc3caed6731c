package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cpp-ledger/internal/application/dto"
	"github.com/jhoicas/cpp-ledger/internal/application/query"
)

// QueryHandler maneja las consultas de valoración (solo lectura, protegido).
type QueryHandler struct {
	uc *query.ValuationUseCase
}

// NewQueryHandler construye el handler.
func NewQueryHandler(uc *query.ValuationUseCase) *QueryHandler {
	return &QueryHandler{uc: uc}
}

// GetItemValuation godoc
// @Summary      Valoración puntual de un artículo (cantidad, CPP, valor total)
// @Tags         query
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemValuationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/items/{id}/valuation [get]
func (h *QueryHandler) GetItemValuation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	res, err := h.uc.GetItemValuation(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.ItemValuationResponse{
		ItemID:      res.ItemID,
		SKU:         res.SKU,
		Name:        res.Name,
		Category:    res.Category,
		Quantity:    res.Quantity,
		AverageCost: res.AverageCost,
		TotalValue:  res.TotalValue,
	})
}

// GetWarehouseValuation godoc
// @Summary      Valoración por categoría, global o reconstruida por bodega
// @Tags         query
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query     string  false  "bodega; vacío = valoración global"
// @Success      200  {object}  dto.WarehouseValuationResponse
// @Router       /api/ledger/valuation [get]
func (h *QueryHandler) GetWarehouseValuation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	res, err := h.uc.GetWarehouseValuation(c.Context(), companyID, c.Query("warehouse_id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	out := dto.WarehouseValuationResponse{
		WarehouseID: res.WarehouseID,
		Categories:  make([]dto.CategoryValuationDTO, 0, len(res.Categories)),
		TotalValue:  res.TotalValue,
	}
	for _, cat := range res.Categories {
		out.Categories = append(out.Categories, dto.CategoryValuationDTO{
			Category:  cat.Category,
			ItemCount: cat.ItemCount,
			Quantity:  cat.Quantity,
			Value:     cat.Value,
		})
	}
	for _, it := range res.Items {
		out.Items = append(out.Items, dto.WarehouseItemDTO{
			ItemID:      it.ItemID,
			SKU:         it.SKU,
			Name:        it.Name,
			Category:    it.Category,
			Quantity:    it.Quantity,
			AverageCost: it.AverageCost,
			Value:       it.Value,
		})
	}
	return c.JSON(out)
}

// GetCostHistory godoc
// @Summary      Histórico de costos del artículo (más reciente primero)
// @Tags         query
// @Security     Bearer
// @Produce      json
// @Param        id    path      string  true   "ID del artículo"
// @Param        from  query     string  false  "fecha inicial RFC3339"
// @Param        to    query     string  false  "fecha final RFC3339"
// @Success      200  {array}   dto.CostHistoryEntryDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/items/{id}/history [get]
func (h *QueryHandler) GetCostHistory(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha 'from' inválida (RFC3339)"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha 'to' inválida (RFC3339)"})
	}
	history, err := h.uc.GetCostHistory(c.Context(), companyID, c.Params("id"), from, to)
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]dto.CostHistoryEntryDTO, 0, len(history))
	for _, e := range history {
		out = append(out, dto.CostHistoryEntryDTO{
			MovementID:        e.Movement.ID,
			Kind:              string(e.Movement.Kind),
			Quantity:          e.Movement.Quantity,
			UnitCost:          e.Movement.UnitCost,
			AverageCostBefore: e.AverageCostBefore,
			AverageCostAfter:  e.Movement.AverageCostAfter,
			TotalCost:         e.TotalCost,
			ReferenceType:     e.Movement.ReferenceType,
			ReferenceID:       e.Movement.ReferenceID,
			Reason:            e.Movement.Reason,
			PerformedBy:       e.Movement.PerformedBy,
			CreatedAt:         e.Movement.CreatedAt,
		})
	}
	return c.JSON(out)
}

// ListRecalculations godoc
// @Summary      Bitácora de replays correctivos del artículo (más reciente primero)
// @Tags         query
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del artículo"
// @Param        limit   query  int     false  "tamaño de página"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}   dto.RecalculationAuditDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/items/{id}/recalculations [get]
func (h *QueryHandler) ListRecalculations(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	recs, err := h.uc.ListRecalculations(c.Context(), companyID, c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]dto.RecalculationAuditDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, dto.RecalculationAuditDTO{
			ID:               rec.ID,
			ItemID:           rec.ItemID,
			PreviousQuantity: rec.PreviousQuantity,
			PreviousCost:     rec.PreviousCost,
			NewQuantity:      rec.NewQuantity,
			NewCost:          rec.NewCost,
			EntriesRewritten: rec.EntriesRewritten,
			PerformedBy:      rec.PerformedBy,
			CreatedAt:        rec.CreatedAt,
		})
	}
	return c.JSON(out)
}

// parseDateQuery interpreta un query param de fecha RFC3339 (o fecha corta AAAA-MM-DD).
func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
