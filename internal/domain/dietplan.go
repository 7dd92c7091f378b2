package domain

import "time"

// Meal type tags
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// DietPlan Model
type DietPlan struct {
	ID            uint      `gorm:"primaryKey" json:"id"`               // Primary key
	UserID        uint      `gorm:"index;not null" json:"user_id"`      // Foreign key to User
	TotalCalories int       `json:"total_calories"`                     // Aggregate calorie target
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`   // Timestamp of creation
	Meals         []Meal    `gorm:"foreignKey:DietPlanID" json:"meals"` // Meals belonging to the plan
}

// Meal Model
type Meal struct {
	ID          uint    `gorm:"primaryKey" json:"id"`               // Primary key
	DietPlanID  uint    `gorm:"index;not null" json:"diet_plan_id"` // Foreign key to DietPlan
	Name        string  `json:"name"`                               // Meal name
	Description string  `json:"description"`                        // Meal description
	Calories    int     `json:"calories"`                           // Calories
	Protein     float64 `json:"protein"`                            // Protein in grams
	Carbs       float64 `json:"carbs"`                              // Carbs in grams
	Fat         float64 `json:"fat"`                                // Fat in grams
	MealType    string  `json:"meal_type"`                          // breakfast, lunch, dinner or snack
	ImageURL    *string `json:"image_url,omitempty"`                // Optional meal image
}
