package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/comfortbites/backend/internal/filter"
	"github.com/comfortbites/backend/internal/models"
)

var ErrRecipeNotFound = errors.New("recipe not found")

const (
	// listLimit caps every query result; pagination beyond it is not offered
	listLimit = 100
	// ingredientScanLimit bounds the vocabulary scan for filter options.
	// The resulting ingredient list is a sample, not the full corpus.
	ingredientScanLimit = 1000
	minIngredientLength = 3
)

// RecipeService handles recipe queries against the seeded corpus
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// LikedRecipe is a recipe stamped with a transient liked flag for one
// response. The flag is never written back to the recipe row.
type LikedRecipe struct {
	models.Recipe
	Liked bool `json:"liked"`
}

// FilterOptions holds the distinct values per filter dimension
type FilterOptions struct {
	DietCategories []string `json:"dietCategories"`
	Ingredients    []string `json:"ingredients"`
	CookingMethods []string `json:"cookingMethods"`
	Cuisines       []string `json:"cuisines"`
}

// List returns recipes matching the filter, capped at 100 rows in store
// order. Store errors are logged and degrade to an empty result so a read
// failure does not take down the whole page.
func (s *RecipeService) List(ctx context.Context, params *filter.Params) []models.Recipe {
	var recipes []models.Recipe
	query := params.Apply(s.db.WithContext(ctx).Model(&models.Recipe{}))
	if err := query.Limit(listLimit).Find(&recipes).Error; err != nil {
		log.Printf("recipe list query failed: %v", err)
		return []models.Recipe{}
	}
	return recipes
}

// GetByID retrieves a recipe. Ids that parse as UUIDs hit the primary key;
// anything else falls back to the legacy source_id column from the import.
// Returns ErrRecipeNotFound when neither lookup matches.
func (s *RecipeService) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe

	column := "source_id"
	if _, err := uuid.Parse(id); err == nil {
		column = "id"
	}

	if err := s.db.WithContext(ctx).First(&recipe, column+" = ?", id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("recipe lookup failed (id=%s): %v", id, err)
		}
		return nil, ErrRecipeNotFound
	}
	return &recipe, nil
}

// SetImageURL updates the recipe's image URL and nothing else. Unlike the
// read paths, write failures propagate to the caller.
func (s *RecipeService) SetImageURL(ctx context.Context, id, imageURL string) (*models.Recipe, error) {
	recipe, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(recipe).Update("image_url", imageURL).Error; err != nil {
		return nil, fmt.Errorf("update recipe image url (id=%s): %w", id, err)
	}
	recipe.ImageURL = imageURL
	return recipe, nil
}

// ToggleLike returns the recipe stamped with the given liked flag. It
// persists nothing about who liked what; the durable relation is the
// user's favorites list.
func (s *RecipeService) ToggleLike(ctx context.Context, id string, liked bool) (*LikedRecipe, error) {
	recipe, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LikedRecipe{Recipe: *recipe, Liked: liked}, nil
}

// GetFilterOptions returns the distinct values per dimension for the
// filter UI. The ingredient vocabulary comes from a bounded scan of the
// first 1000 recipes, so it is a sample rather than an exhaustive list.
func (s *RecipeService) GetFilterOptions(ctx context.Context) (*FilterOptions, error) {
	opts := &FilterOptions{}

	columns := []struct {
		name string
		dest *[]string
	}{
		{"diet_category", &opts.DietCategories},
		{"cooking_method", &opts.CookingMethods},
		{"cuisine", &opts.Cuisines},
	}
	for _, col := range columns {
		var values []string
		err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Distinct(col.name).
			Where(col.name + " <> ''").
			Order(col.name).
			Pluck(col.name, &values).Error
		if err != nil {
			return nil, fmt.Errorf("distinct %s query: %w", col.name, err)
		}
		*col.dest = values
	}

	var sample []models.Recipe
	err := s.db.WithContext(ctx).
		Select("cleaned_ingredients").
		Limit(ingredientScanLimit).
		Find(&sample).Error
	if err != nil {
		return nil, fmt.Errorf("ingredient sample query: %w", err)
	}

	seen := make(map[string]struct{})
	for _, recipe := range sample {
		for _, ingredient := range recipe.CleanedIngredients {
			if len(ingredient) >= minIngredientLength {
				seen[ingredient] = struct{}{}
			}
		}
	}
	for ingredient := range seen {
		opts.Ingredients = append(opts.Ingredients, ingredient)
	}
	sort.Strings(opts.Ingredients)

	return opts, nil
}
