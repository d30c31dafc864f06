package domain

import (
	"context"

	"github.com/mhlavac/edupage-mcp/internal/aggregate"
	"github.com/mhlavac/edupage-mcp/internal/lean"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MealsInput targets the meal listing for one day.
type MealsInput struct {
	Date    string `json:"date,omitempty" jsonschema:"day in YYYY-MM-DD format; omit for today"`
	Account string `json:"account,omitempty" jsonschema:"account id; required when several accounts are logged in"`
}

// MealsResult lists the day's meal slots. Message is set instead when
// the school published no meal data for the day.
type MealsResult struct {
	Account        string     `json:"account,omitempty"`
	Snack          *lean.Meal `json:"snack,omitempty"`
	Lunch          *lean.Meal `json:"lunch,omitempty"`
	AfternoonSnack *lean.Meal `json:"afternoon_snack,omitempty"`
	Message        string     `json:"message,omitempty"`
}

// MealsTool defines the tool schema for the meal listing.
func MealsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_meals",
		Description: "Gets school meal information (snack, lunch, afternoon snack) for a date.",
	}
}

// MealsHandler returns the published meals of one account's school for
// a day.
func MealsHandler(registry *aggregate.Registry) mcp.ToolHandlerFor[MealsInput, MealsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MealsInput) (*mcp.CallToolResult, MealsResult, error) {
		runCtx, cancel := callCtx(ctx)
		defer cancel()

		day, err := parseDate(input.Date)
		if err != nil {
			return nil, MealsResult{}, toolError("get_meals", err)
		}
		session, err := registry.ResolveDefault(input.Account)
		if err != nil {
			return nil, MealsResult{}, toolError("get_meals", err)
		}

		meals, err := session.Client.Meals(runCtx, day)
		if err != nil {
			return nil, MealsResult{}, toolError("get_meals", err)
		}
		if meals == nil {
			return nil, MealsResult{Account: session.ID, Message: "No meal data available for this date."}, nil
		}
		return nil, MealsResult{
			Account:        session.ID,
			Snack:          lean.FromMeal(meals.Snack),
			Lunch:          lean.FromMeal(meals.Lunch),
			AfternoonSnack: lean.FromMeal(meals.AfternoonSnack),
		}, nil
	}
}
