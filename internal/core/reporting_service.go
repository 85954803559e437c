package core

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
)

// ReportingService provides read-only aggregates over sales, recipes and
// ingredients. Nothing here mutates the store.
type ReportingService interface {
	// DashboardStats sums revenue over all sales and prices every sale at
	// current ingredient prices. A sale whose recipe or ingredients can no
	// longer be resolved contributes zero cost instead of failing the report.
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

type reportingService struct {
	store  Queries
	logger *slog.Logger
}

func NewReportingService(store Queries, logger *slog.Logger) ReportingService {
	return &reportingService{store: store, logger: logger}
}

func (s *reportingService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	const op = "DashboardStats"

	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, withOp(op, err)
	}
	ings, err := s.store.ListIngredients(ctx)
	if err != nil {
		return nil, withOp(op, err)
	}

	prices := make(map[string]decimal.Decimal, len(ings))
	low := make([]Ingredient, 0)
	for _, ing := range ings {
		prices[ing.ID] = ing.UnitPrice
		if ing.IsLowStock() {
			low = append(low, ing)
		}
	}

	// Cost is per recipe, so price each recipe once.
	costs := make(map[string]decimal.Decimal)
	stats := &DashboardStats{
		TotalSales:          decimal.Zero,
		TotalCosts:          decimal.Zero,
		LowStockIngredients: low,
	}
	for _, sale := range sales {
		stats.TotalSales = stats.TotalSales.Add(sale.SaleAmount)

		cost, ok := costs[sale.RecipeID]
		if !ok {
			cost = s.recipeCost(ctx, sale, prices)
			costs[sale.RecipeID] = cost
		}
		stats.TotalCosts = stats.TotalCosts.Add(cost)
	}
	stats.TotalMargin = stats.TotalSales.Sub(stats.TotalCosts)

	s.logger.Debug("dashboard computed", "sales", len(sales),
		"total_sales", stats.TotalSales.String(), "total_costs", stats.TotalCosts.String(),
		"low_stock", len(low))
	return stats, nil
}

// recipeCost prices the recipe of sale at current prices, or returns zero
// when that is not possible.
func (s *reportingService) recipeCost(ctx context.Context, sale Sale, prices map[string]decimal.Decimal) decimal.Decimal {
	if _, err := s.store.GetRecipe(ctx, sale.RecipeID); err != nil {
		s.logger.Warn("dashboard: recipe unavailable, counting zero cost",
			"sale_id", sale.ID, "recipe_id", sale.RecipeID, "error", err)
		return decimal.Zero
	}
	comps, err := s.store.ListComponents(ctx, sale.RecipeID)
	if err != nil {
		s.logger.Warn("dashboard: components unavailable, counting zero cost",
			"sale_id", sale.ID, "recipe_id", sale.RecipeID, "error", err)
		return decimal.Zero
	}
	cost, err := ComponentCost(comps, prices)
	if err != nil {
		s.logger.Warn("dashboard: cannot price recipe, counting zero cost",
			"sale_id", sale.ID, "recipe_id", sale.RecipeID, "error", err)
		return decimal.Zero
	}
	return cost
}
