package api

import (
	"github.com/comfortbites/backend/internal/models"
	"github.com/comfortbites/backend/internal/service"
)

// UserView is the user representation sent to clients. The password hash
// never leaves the server.
type UserView struct {
	ID        uint     `json:"id"`
	Username  string   `json:"username"`
	Favorites []string `json:"favorites"`
}

// NewUserView projects a user record into its response shape
func NewUserView(user *models.User) UserView {
	return UserView{
		ID:        user.ID,
		Username:  user.Username,
		Favorites: append([]string{}, user.Favorites...),
	}
}

// stampLiked joins the recipe sequence with the current user's favorites.
// The liked flag is derived per response and never stored on a recipe.
func stampLiked(recipes []models.Recipe, user *models.User) []service.LikedRecipe {
	views := make([]service.LikedRecipe, 0, len(recipes))
	for _, recipe := range recipes {
		liked := user != nil && user.HasFavorite(recipe.ID.String())
		views = append(views, service.LikedRecipe{Recipe: recipe, Liked: liked})
	}
	return views
}
