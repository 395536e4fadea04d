// Package vision abstracts the third-party image-understanding API that
// estimates a meal's nutrition from a photo.
package vision

import "context"

// Analysis is the structured estimate returned by the API.
type Analysis struct {
	FoodItems     []string `json:"foodItems"`
	TotalCalories int      `json:"totalCalories"`
	Macros        struct {
		Protein float64 `json:"protein"`
		Carbs   float64 `json:"carbs"`
		Fat     float64 `json:"fat"`
	} `json:"macros"`
	Description string `json:"description"`
}

// Analyzer is the contract handlers depend on.
type Analyzer interface {
	AnalyzeMeal(ctx context.Context, image []byte, mimeType, note string) (*Analysis, error)
}
