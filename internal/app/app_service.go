package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"recipe-costing/internal/core"
	"recipe-costing/internal/logging"
	"recipe-costing/internal/metrics"
)

type appService struct {
	inventory    core.InventoryService
	recipes      core.RecipeService
	sales        core.SaleService
	compensation core.CompensationService
	reporting    core.ReportingService
	metrics      *metrics.Recorder
}

// NewAppService constructs an appService that satisfies ApplicationService.
// rec may be nil.
func NewAppService(
	inventory core.InventoryService,
	recipes core.RecipeService,
	sales core.SaleService,
	compensation core.CompensationService,
	reporting core.ReportingService,
	rec *metrics.Recorder,
) ApplicationService {
	return &appService{
		inventory:    inventory,
		recipes:      recipes,
		sales:        sales,
		compensation: compensation,
		reporting:    reporting,
		metrics:      rec,
	}
}

// NewFromStore builds every core service on store and returns the facade.
func NewFromStore(store core.EntityStore, logger *slog.Logger, rec *metrics.Recorder) ApplicationService {
	return NewAppService(
		core.NewInventoryService(store, logging.Component(logger, "inventory")),
		core.NewRecipeService(store, logging.Component(logger, "recipes")),
		core.NewSaleService(store, logging.Component(logger, "sales")),
		core.NewCompensationService(store, logging.Component(logger, "compensation")),
		core.NewReportingService(store, logging.Component(logger, "reporting")),
		rec,
	)
}

func (s *appService) observe(op string, start time.Time, err error) {
	s.metrics.ObserveOperation(op, err, time.Since(start))
}

// AddIngredient creates an ingredient with an initial stock level.
func (s *appService) AddIngredient(ctx context.Context, req AddIngredientRequest) (res *IngredientResult, err error) {
	defer func(start time.Time) { s.observe("AddIngredient", start, err) }(time.Now())
	ing, err := s.inventory.AddIngredient(ctx, core.IngredientInput{
		Name:             req.Name,
		UnitPrice:        req.UnitPrice,
		Unit:             req.Unit,
		StockQuantity:    req.StockQuantity,
		RestockThreshold: req.RestockThreshold,
	})
	if err != nil {
		return nil, err
	}
	return &IngredientResult{Ingredient: ing, LowStock: ing.IsLowStock()}, nil
}

// UpdateIngredient changes descriptive fields, price or threshold.
func (s *appService) UpdateIngredient(ctx context.Context, req UpdateIngredientRequest) (res *IngredientResult, err error) {
	defer func(start time.Time) { s.observe("UpdateIngredient", start, err) }(time.Now())
	ing, err := s.inventory.UpdateIngredient(ctx, req.ID, core.IngredientPatch{
		Name:             req.Name,
		UnitPrice:        req.UnitPrice,
		Unit:             req.Unit,
		RestockThreshold: req.RestockThreshold,
	})
	if err != nil {
		return nil, err
	}
	return &IngredientResult{Ingredient: ing, LowStock: ing.IsLowStock()}, nil
}

// RestockIngredient adds stock to an ingredient.
func (s *appService) RestockIngredient(ctx context.Context, req RestockRequest) (res *IngredientResult, err error) {
	defer func(start time.Time) { s.observe("RestockIngredient", start, err) }(time.Now())
	ing, err := s.inventory.RestockIngredient(ctx, req.ID, req.Quantity)
	if err != nil {
		return nil, err
	}
	return &IngredientResult{Ingredient: ing, LowStock: ing.IsLowStock()}, nil
}

// ListIngredients returns every ingredient.
func (s *appService) ListIngredients(ctx context.Context) (res *IngredientListResult, err error) {
	defer func(start time.Time) { s.observe("ListIngredients", start, err) }(time.Now())
	ings, err := s.inventory.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]string, 0)
	for _, ing := range ings {
		if ing.IsLowStock() {
			low = append(low, ing.ID)
		}
	}
	return &IngredientListResult{Ingredients: ings, LowStockIDs: low}, nil
}

// DeleteIngredient removes the ingredient from all recipes and deletes it.
func (s *appService) DeleteIngredient(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.observe("DeleteIngredient", start, err) }(time.Now())
	return s.compensation.DeleteIngredient(ctx, id)
}

// CreateRecipe prices and stores a recipe.
func (s *appService) CreateRecipe(ctx context.Context, req CreateRecipeRequest) (res *RecipeResult, err error) {
	defer func(start time.Time) { s.observe("CreateRecipe", start, err) }(time.Now())
	r, err := s.recipes.CreateRecipe(ctx, req.Name, req.IngredientIDs, req.Quantities, req.TargetMargin)
	if err != nil {
		return nil, err
	}
	return &RecipeResult{Recipe: r}, nil
}

// GetRecipe returns one recipe.
func (s *appService) GetRecipe(ctx context.Context, id string) (res *RecipeResult, err error) {
	defer func(start time.Time) { s.observe("GetRecipe", start, err) }(time.Now())
	r, err := s.recipes.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RecipeResult{Recipe: r}, nil
}

// ListRecipes returns every recipe.
func (s *appService) ListRecipes(ctx context.Context) (res *RecipeListResult, err error) {
	defer func(start time.Time) { s.observe("ListRecipes", start, err) }(time.Now())
	rs, err := s.recipes.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	return &RecipeListResult{Recipes: rs}, nil
}

// DeleteRecipe cascades to the recipe's sales and components.
func (s *appService) DeleteRecipe(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.observe("DeleteRecipe", start, err) }(time.Now())
	return s.compensation.DeleteRecipe(ctx, id)
}

// RecordSale records a sale and deducts stock.
func (s *appService) RecordSale(ctx context.Context, req RecordSaleRequest) (res *SaleResult, err error) {
	defer func(start time.Time) { s.observe("RecordSale", start, err) }(time.Now())
	sale, err := s.sales.RecordSale(ctx, req.RecipeID, req.SaleAmount, req.QuantitySold)
	if err != nil {
		var ce *core.Error
		if errors.Is(err, core.ErrInsufficientStock) && errors.As(err, &ce) {
			s.metrics.ObserveStockRejection(ce.ID)
		}
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

// GetSale returns one sale.
func (s *appService) GetSale(ctx context.Context, id string) (res *SaleResult, err error) {
	defer func(start time.Time) { s.observe("GetSale", start, err) }(time.Now())
	sale, err := s.sales.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SaleResult{Sale: sale}, nil
}

// ListSales returns all sales.
func (s *appService) ListSales(ctx context.Context) (res *SaleListResult, err error) {
	defer func(start time.Time) { s.observe("ListSales", start, err) }(time.Now())
	sales, err := s.sales.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Sales: sales}, nil
}

// DeleteSale reverses a sale.
func (s *appService) DeleteSale(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.observe("DeleteSale", start, err) }(time.Now())
	return s.compensation.DeleteSale(ctx, id)
}

// DashboardStats returns the dashboard summary.
func (s *appService) DashboardStats(ctx context.Context) (res *core.DashboardStats, err error) {
	defer func(start time.Time) { s.observe("DashboardStats", start, err) }(time.Now())
	return s.reporting.DashboardStats(ctx)
}
