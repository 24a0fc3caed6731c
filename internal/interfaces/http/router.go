package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/cpp-ledger/internal/application/catalog"
	"github.com/jhoicas/cpp-ledger/internal/application/ledger"
	"github.com/jhoicas/cpp-ledger/internal/application/query"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC    *catalog.ItemUseCase
	Engine    *ledger.Engine
	Valuation *query.ValuationUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo de artículos (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)

	// Motor de valoración (protegido)
	ledgerGroup := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.Engine)
	ledgerGroup.Post("/entries", ledgerHandler.RegisterEntry)
	ledgerGroup.Post("/exits", ledgerHandler.RegisterExit)
	ledgerGroup.Post("/adjustments", ledgerHandler.RegisterAdjustment)
	ledgerGroup.Post("/transfers", ledgerHandler.RegisterTransfer)
	ledgerGroup.Post("/items/:id/recalculate", ledgerHandler.Recalculate)

	// Consultas de valoración (protegido, solo lectura)
	queryHandler := NewQueryHandler(deps.Valuation)
	ledgerGroup.Get("/valuation", queryHandler.GetWarehouseValuation)
	ledgerGroup.Get("/items/:id/valuation", queryHandler.GetItemValuation)
	ledgerGroup.Get("/items/:id/history", queryHandler.GetCostHistory)
	ledgerGroup.Get("/items/:id/recalculations", queryHandler.ListRecalculations)
}
