// Package filter implements the recipe filter semantics shared by the
// query builder and the pure predicate: OR within a dimension, AND across
// dimensions, case-insensitive substring containment for ingredients.
package filter

import (
	"strings"

	"gorm.io/gorm"

	"github.com/comfortbites/backend/internal/models"
)

// Params is a per-request filter. Empty fields mean "no constraint on
// that dimension"; a nil *Params means no filtering at all.
type Params struct {
	DietCategory  []string `json:"dietCategory,omitempty"`
	Ingredients   []string `json:"ingredients,omitempty"`
	CookingMethod []string `json:"cookingMethod,omitempty"`
	Cuisine       []string `json:"cuisine,omitempty"`
	MaxTime       int      `json:"maxTime,omitempty"`
}

// IsZero reports whether no dimension carries a constraint.
func (p *Params) IsZero() bool {
	if p == nil {
		return true
	}
	return len(p.DietCategory) == 0 && len(p.Ingredients) == 0 &&
		len(p.CookingMethod) == 0 && len(p.Cuisine) == 0 && p.MaxTime <= 0
}

// Matches evaluates the filter against a single recipe. Every supplied
// dimension must hold; each requested ingredient term must be contained,
// case-folded, in at least one cleaned ingredient.
func (p *Params) Matches(r *models.Recipe) bool {
	if p == nil {
		return true
	}
	if len(p.DietCategory) > 0 && !contains(p.DietCategory, r.DietCategory) {
		return false
	}
	if len(p.CookingMethod) > 0 && !contains(p.CookingMethod, r.CookingMethod) {
		return false
	}
	if len(p.Cuisine) > 0 && !contains(p.Cuisine, r.Cuisine) {
		return false
	}
	if p.MaxTime > 0 && r.TotalTimeMinutes > p.MaxTime {
		return false
	}
	for _, term := range p.Ingredients {
		if !hasIngredient(r.CleanedIngredients, term) {
			return false
		}
	}
	return true
}

// likeEscaper neutralizes LIKE metacharacters so ingredient terms match
// literally, the same way Matches treats them.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Apply translates the filter into a GORM query with the same semantics
// as Matches. Ingredient containment is checked per element of the
// cleaned_ingredients array, dialect-aware (jsonb on postgres, json1 on
// sqlite).
func (p *Params) Apply(query *gorm.DB) *gorm.DB {
	if p == nil {
		return query
	}
	if len(p.DietCategory) > 0 {
		query = query.Where("diet_category IN ?", p.DietCategory)
	}
	if len(p.CookingMethod) > 0 {
		query = query.Where("cooking_method IN ?", p.CookingMethod)
	}
	if len(p.Cuisine) > 0 {
		query = query.Where("cuisine IN ?", p.Cuisine)
	}
	if p.MaxTime > 0 {
		query = query.Where("total_time_minutes <= ?", p.MaxTime)
	}
	// Each term must be contained in some single ingredient, so the LIKE
	// runs per array element rather than against the serialized column.
	clause := `EXISTS (SELECT 1 FROM json_each(cleaned_ingredients) WHERE LOWER(json_each.value) LIKE ? ESCAPE '\')`
	if query.Dialector.Name() == "postgres" {
		clause = `EXISTS (SELECT 1 FROM jsonb_array_elements_text(cleaned_ingredients) AS ing(val) WHERE LOWER(ing.val) LIKE ? ESCAPE '\')`
	}
	for _, term := range p.Ingredients {
		like := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
		query = query.Where(clause, like)
	}
	return query
}

func contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

func hasIngredient(cleaned []string, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, ing := range cleaned {
		if strings.Contains(strings.ToLower(ing), term) {
			return true
		}
	}
	return false
}
