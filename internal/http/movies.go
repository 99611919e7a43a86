package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"myflix-api/internal/domain"
)

type GenreResponse struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type DirectorResponse struct {
	Name  string `json:"name"`
	Bio   string `json:"bio,omitempty"`
	Birth string `json:"birth,omitempty"`
	Death string `json:"death,omitempty"`
}

type MovieResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Genre       GenreResponse    `json:"genre"`
	Director    DirectorResponse `json:"director"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	Featured    bool             `json:"featured"`
}

func (h *Handler) listMovies(c *gin.Context) {
	movies, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, moviesToResponse(movies))
}

func (h *Handler) getMovie(c *gin.Context) {
	movie, err := h.catalog.GetByTitle(c.Request.Context(), c.Param("title"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, movieToResponse(*movie))
}

func (h *Handler) listMoviesByGenre(c *gin.Context) {
	movies, err := h.catalog.ListByGenre(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, moviesToResponse(movies))
}

func (h *Handler) listMoviesByDirector(c *gin.Context) {
	movies, err := h.catalog.ListByDirector(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, moviesToResponse(movies))
}

func (h *Handler) getGenre(c *gin.Context) {
	genre, err := h.catalog.GetGenre(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, GenreResponse{Name: genre.Name, Description: genre.Description})
}

func (h *Handler) getDirector(c *gin.Context) {
	director, err := h.catalog.GetDirector(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, directorToResponse(*director))
}

func moviesToResponse(movies []domain.Movie) []MovieResponse {
	resp := make([]MovieResponse, len(movies))
	for i := range movies {
		resp[i] = movieToResponse(movies[i])
	}
	return resp
}

func movieToResponse(movie domain.Movie) MovieResponse {
	return MovieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		Genre:       GenreResponse{Name: movie.Genre.Name, Description: movie.Genre.Description},
		Director:    directorToResponse(movie.Director),
		ImageURL:    movie.ImageURL,
		Featured:    movie.Featured,
	}
}

func directorToResponse(d domain.Director) DirectorResponse {
	return DirectorResponse{Name: d.Name, Bio: d.Bio, Birth: d.Birth, Death: d.Death}
}
