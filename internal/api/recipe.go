package api

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comfortbites/backend/internal/cache"
	"github.com/comfortbites/backend/internal/filter"
	"github.com/comfortbites/backend/internal/middleware"
	"github.com/comfortbites/backend/internal/service"
)

// maxUploadSize caps recipe image uploads at 10MB
const maxUploadSize = 10 << 20

// RecipeHandler handles recipe browsing, likes, and image uploads
type RecipeHandler struct {
	recipes      *service.RecipeService
	users        *service.UserService
	images       *service.ImageService
	optionsCache *cache.OptionsCache
}

// NewRecipeHandler creates a new RecipeHandler. images and optionsCache
// may be nil; image upload returns 501 and filter options skip the cache.
func NewRecipeHandler(recipes *service.RecipeService, users *service.UserService, images *service.ImageService, optionsCache *cache.OptionsCache) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		users:        users,
		images:       images,
		optionsCache: optionsCache,
	}
}

// RegisterRoutes registers the recipe endpoints
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.GET("", h.ListRecipes)
	recipes.GET("/filters/options", h.GetFilterOptions)
	recipes.GET("/:id", h.GetRecipe)
	recipes.POST("/:id/like", middleware.RequireAuth(), h.LikeRecipe)
	recipes.POST("/:id/unlike", middleware.RequireAuth(), h.UnlikeRecipe)
	recipes.POST("/:id/image", middleware.RequireAuth(), h.UploadImage)
}

// parseFilterParams reads the repeatable filter dimensions and maxTime
// from the query string
func parseFilterParams(c *gin.Context) (*filter.Params, error) {
	params := &filter.Params{
		DietCategory:  c.QueryArray("dietCategory"),
		Ingredients:   c.QueryArray("ingredients"),
		CookingMethod: c.QueryArray("cookingMethod"),
		Cuisine:       c.QueryArray("cuisine"),
	}
	if raw := c.Query("maxTime"); raw != "" {
		maxTime, err := strconv.Atoi(raw)
		if err != nil || maxTime < 0 {
			return nil, errors.New("maxTime must be a non-negative integer")
		}
		params.MaxTime = maxTime
	}
	return params, nil
}

// ListRecipes returns up to 100 recipes matching the query filters,
// each stamped with the current user's liked flag
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	params, err := parseFilterParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	recipes := h.recipes.List(c.Request.Context(), params)
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, stampLiked(recipes, user))
}

// GetRecipe returns a single recipe by id, falling back to the legacy
// import id when the path segment is not a UUID
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipes.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
		return
	}

	if recipe.Instructions == "" {
		recipe.Instructions = "Instructions are not available for this recipe."
	}

	user, _ := middleware.CurrentUser(c)
	liked := user != nil && user.HasFavorite(recipe.ID.String())
	c.JSON(http.StatusOK, service.LikedRecipe{Recipe: *recipe, Liked: liked})
}

// LikeRecipe adds the recipe to the user's favorites and returns the
// recipe stamped liked
func (h *RecipeHandler) LikeRecipe(c *gin.Context) {
	h.setLiked(c, true)
}

// UnlikeRecipe removes the recipe from the user's favorites and returns
// the recipe stamped not liked
func (h *RecipeHandler) UnlikeRecipe(c *gin.Context) {
	h.setLiked(c, false)
}

func (h *RecipeHandler) setLiked(c *gin.Context, liked bool) {
	user, _ := middleware.CurrentUser(c)

	stamped, err := h.recipes.ToggleLike(c.Request.Context(), c.Param("id"), liked)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
		return
	}

	// Read-modify-write on the user snapshot from request start:
	// concurrent likes on one session can lose an update. Last write
	// wins; favorites are per-person and the next toggle repairs it.
	// Favorites always key on the canonical recipe id, even when the
	// request arrived with the legacy import id.
	recipeID := stamped.ID.String()
	favorites := make([]string, 0, len(user.Favorites)+1)
	for _, id := range user.Favorites {
		if id != recipeID {
			favorites = append(favorites, id)
		}
	}
	if liked {
		favorites = append(favorites, recipeID)
	}

	updated, err := h.users.UpdateFavorites(c.Request.Context(), user.ID, favorites)
	if err != nil {
		log.Printf("favorites update failed (user=%d, recipe=%s): %v", user.ID, recipeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	middleware.SetCurrentUser(c, updated)

	c.JSON(http.StatusOK, stamped)
}

// GetFilterOptions returns the distinct values per filter dimension.
// Reads go through the Redis cache when one is wired in, and store
// failures degrade to empty option lists.
func (h *RecipeHandler) GetFilterOptions(c *gin.Context) {
	ctx := c.Request.Context()

	if h.optionsCache != nil {
		if opts, ok := h.optionsCache.Get(ctx); ok {
			c.JSON(http.StatusOK, opts)
			return
		}
	}

	opts, err := h.recipes.GetFilterOptions(ctx)
	if err != nil {
		log.Printf("filter options query failed: %v", err)
		c.JSON(http.StatusOK, &service.FilterOptions{
			DietCategories: []string{},
			Ingredients:    []string{},
			CookingMethods: []string{},
			Cuisines:       []string{},
		})
		return
	}

	if h.optionsCache != nil {
		h.optionsCache.Set(ctx, opts)
	}
	c.JSON(http.StatusOK, opts)
}

// UploadImage stores a recipe image and records its URL on the recipe
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"message": "Image upload is not available on this server"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"message": "File too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid file"})
		return
	}

	url, err := h.images.SaveRecipeImage(c.Request.Context(), fileHeader.Filename, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("image upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store image"})
		return
	}

	recipe, err := h.recipes.SetImageURL(c.Request.Context(), c.Param("id"), url)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Recipe not found"})
			return
		}
		log.Printf("image url update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}
