package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Recipe is a row of the seeded recipe corpus. Rows are read-mostly: only
// ImageURL changes after import. Whether a user has liked a recipe is never
// stored here; that relation lives in User.Favorites.
type Recipe struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	SourceID           string           `gorm:"size:64;index" json:"source_id,omitempty"`
	Name               string           `gorm:"size:255;not null" json:"name"`
	Ingredients        JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	CleanedIngredients JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"cleaned_ingredients"`
	TotalTimeMinutes   int              `gorm:"not null;default:0;check:total_time_minutes >= 0" json:"total_time_minutes"`
	Cuisine            string           `gorm:"size:100" json:"cuisine"`
	Instructions       string           `gorm:"type:text" json:"instructions"`
	URL                string           `gorm:"size:512" json:"url"`
	ImageURL           string           `gorm:"size:512" json:"image_url"`
	IngredientCount    int              `json:"ingredient_count"`
	DietCategory       string           `gorm:"size:50;index" json:"diet_category"`
	MealType           string           `gorm:"size:50" json:"meal_type"`
	CookingMethod      string           `gorm:"size:50;index" json:"cooking_method"`
}

// BeforeCreate assigns an id so the model works on both postgres and sqlite
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
