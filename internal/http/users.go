package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"myflix-api/internal/auth"
	"myflix-api/internal/domain"
	"myflix-api/internal/service"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type UserResponse struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Birthday       *string  `json:"birthday,omitempty"`
	FavoriteMovies []string `json:"favoriteMovies"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}

type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{User: userToResponse(*user), Token: token})
}

func (h *Handler) registerUser(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userToResponse(*user))
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), currentActor(c), c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) updateUser(c *gin.Context) {
	actor, target := currentActor(c), c.Param("username")
	// ownership before even looking at the body
	if actor.Username != target {
		h.respondError(c, service.ErrPermissionDenied)
		return
	}

	var req service.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.users.Update(c.Request.Context(), actor, target, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	target := c.Param("username")
	if err := h.users.Delete(c.Request.Context(), currentActor(c), target); err != nil {
		h.respondError(c, err)
		return
	}
	c.String(http.StatusOK, "%s was deleted.", target)
}

func (h *Handler) addFavorite(c *gin.Context) {
	user, err := h.users.AddFavorite(c.Request.Context(), currentActor(c), c.Param("username"), c.Param("movieId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) removeFavorite(c *gin.Context) {
	user, err := h.users.RemoveFavorite(c.Request.Context(), currentActor(c), c.Param("username"), c.Param("movieId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func currentActor(c *gin.Context) service.Actor {
	return service.Actor{ID: auth.UserID(c), Username: auth.Username(c)}
}

func userToResponse(user domain.User) UserResponse {
	resp := UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FavoriteMovies: user.FavoriteMovies,
		CreatedAt:      user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      user.UpdatedAt.Format(time.RFC3339),
	}
	if resp.FavoriteMovies == nil {
		resp.FavoriteMovies = []string{}
	}
	if user.Birthday != nil {
		v := user.Birthday.Format("2006-01-02")
		resp.Birthday = &v
	}
	return resp
}
