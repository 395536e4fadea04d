package meal

import "time"

// Macros are the estimated macronutrients for a meal, in grams.
type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// Meal is one logged meal record.
type Meal struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	ImageURL      string    `json:"imageUrl"`
	Description   string    `json:"description"`
	TotalCalories int       `json:"totalCalories"`
	Macros        Macros    `json:"macros"`
	FoodItems     []string  `json:"foodItems,omitempty"`
	Labels        []string  `json:"labels,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Data is the client-supplied portion of a meal, before the server attaches
// identity, image URL and timestamps.
type Data struct {
	Description   string   `json:"description"`
	TotalCalories int      `json:"totalCalories"`
	Macros        Macros   `json:"macros"`
	FoodItems     []string `json:"foodItems,omitempty"`
	Labels        []string `json:"labels,omitempty"`
}
