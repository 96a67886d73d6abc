package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/jsamuelsen/quoteboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quoteboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quoteboard/internal/app"
	"github.com/jsamuelsen/quoteboard/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// boardTemplates holds the parsed page templates. Parsing can only fail if
// the embedded files are broken, which the handler tests catch.
var boardTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const boardPage = "board.html"

// Sessions resolves a session ID to its board.
type Sessions interface {
	Get(id string) *app.Synchronizer
}

// BoardHandler serves the quote board as an HTML page driven by plain form
// posts, plus a JSON view of the same board. Each browser session gets its
// own board via the Session middleware.
type BoardHandler struct {
	sessions Sessions
	tmpl     *template.Template
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(sessions Sessions) *BoardHandler {
	return &BoardHandler{
		sessions: sessions,
		tmpl:     boardTemplates,
	}
}

func (h *BoardHandler) board(c *gin.Context) *app.Synchronizer {
	return h.sessions.Get(middleware.GetSessionID(c))
}

// Page handles GET /
// Fetches the list and renders the board.
func (h *BoardHandler) Page(c *gin.Context) {
	board, err := h.board(c).Load(c.Request.Context())
	h.respond(c, board, err)
}

// Create handles POST /quotes
// Form fields: quote, author.
func (h *BoardHandler) Create(c *gin.Context) {
	s := h.board(c)

	// Missing fields fall through to the board's own validation, which
	// keeps the submitted values in the form.
	var form dto.QuoteForm
	if err := dto.BindFormAndValidate(c, &form); errors.Is(err, dto.ErrBinding) {
		h.render(c, http.StatusUnprocessableEntity, s.Board())
		return
	}

	board, err := s.Create(c.Request.Context(), form.Draft())
	h.respond(c, board, err)
}

// Edit handles POST /quotes/:id
// Form fields: quote, author.
func (h *BoardHandler) Edit(c *gin.Context) {
	s := h.board(c)

	// Missing fields fall through to the board's own validation, which
	// keeps the submitted values in the form.
	var form dto.QuoteForm
	if err := dto.BindFormAndValidate(c, &form); errors.Is(err, dto.ErrBinding) {
		h.render(c, http.StatusUnprocessableEntity, s.Board())
		return
	}

	board, err := s.Edit(c.Request.Context(), c.Param("id"), form.Draft())
	h.respond(c, board, err)
}

// Like handles POST /quotes/:id/like
func (h *BoardHandler) Like(c *gin.Context) {
	board, err := h.board(c).Like(c.Request.Context(), c.Param("id"))
	h.respond(c, board, err)
}

// Delete handles POST /quotes/:id/delete
func (h *BoardHandler) Delete(c *gin.Context) {
	board, err := h.board(c).Delete(c.Request.Context(), c.Param("id"))
	h.respond(c, board, err)
}

// ToggleEdit handles POST /quotes/:id/edit
// Opens or closes the inline form without contacting the store.
func (h *BoardHandler) ToggleEdit(c *gin.Context) {
	board, err := h.board(c).ToggleEdit(c.Param("id"))
	h.respond(c, board, err)
}

// ToggleSort handles POST /sort
func (h *BoardHandler) ToggleSort(c *gin.Context) {
	board, err := h.board(c).ToggleSort(c.Request.Context())
	h.respond(c, board, err)
}

// GetBoard handles GET /api/v1/board
// Fetches the list and returns the board as JSON.
//
// @Summary Get the board
// @Produce json
// @Success 200 {object} app.Board
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/board [get]
func (h *BoardHandler) GetBoard(c *gin.Context) {
	board, err := h.board(c).Load(c.Request.Context())
	h.respondJSON(c, board, err)
}

// CreateQuote handles POST /api/v1/quotes with a JSON body.
func (h *BoardHandler) CreateQuote(c *gin.Context) {
	var form dto.QuoteForm
	if err := dto.BindAndValidate(c, &form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"request validation failed",
			dto.ValidationErrors(err),
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	board, err := h.board(c).Create(c.Request.Context(), form.Draft())
	h.respondJSON(c, board, err)
}

// UpdateQuote handles PATCH /api/v1/quotes/:id with a JSON body.
func (h *BoardHandler) UpdateQuote(c *gin.Context) {
	var form dto.QuoteForm
	if err := dto.BindAndValidate(c, &form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"request validation failed",
			dto.ValidationErrors(err),
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	board, err := h.board(c).Edit(c.Request.Context(), c.Param("id"), form.Draft())
	h.respondJSON(c, board, err)
}

// DeleteQuote handles DELETE /api/v1/quotes/:id
func (h *BoardHandler) DeleteQuote(c *gin.Context) {
	board, err := h.board(c).Delete(c.Request.Context(), c.Param("id"))
	h.respondJSON(c, board, err)
}

// LikeQuote handles POST /api/v1/quotes/:id/likes
func (h *BoardHandler) LikeQuote(c *gin.Context) {
	board, err := h.board(c).Like(c.Request.Context(), c.Param("id"))
	h.respondJSON(c, board, err)
}

// SortQuotes handles POST /api/v1/sort
func (h *BoardHandler) SortQuotes(c *gin.Context) {
	board, err := h.board(c).ToggleSort(c.Request.Context())
	h.respondJSON(c, board, err)
}

// respond renders the board returned by an action. Store failures still
// answer 200: the page shows the board as it was before the action.
func (h *BoardHandler) respond(c *gin.Context, board app.Board, err error) {
	h.render(c, pageStatus(err), board)
}

func (h *BoardHandler) render(c *gin.Context, status int, board app.Board) {
	c.Render(status, render.HTML{Template: h.tmpl, Name: boardPage, Data: board})
}

func pageStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if step, ok := app.GetExecutionStep(err); ok && step == app.StepValidate {
		return http.StatusUnprocessableEntity
	}

	// Local lookups, not store responses.
	if !app.IsExecutionError(err) && domain.IsNotFound(err) {
		return http.StatusNotFound
	}

	return http.StatusOK
}

// respondJSON writes the board, or the error envelope if the action failed.
func (h *BoardHandler) respondJSON(c *gin.Context, board app.Board, err error) {
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

// RegisterPageRoutes registers the HTML board routes.
func (h *BoardHandler) RegisterPageRoutes(rg gin.IRoutes) {
	rg.GET("/", h.Page)
	rg.POST("/sort", h.ToggleSort)
	rg.POST("/quotes", h.Create)
	rg.POST("/quotes/:id", h.Edit)
	rg.POST("/quotes/:id/like", h.Like)
	rg.POST("/quotes/:id/delete", h.Delete)
	rg.POST("/quotes/:id/edit", h.ToggleEdit)
}

// RegisterAPIRoutes registers the JSON board routes on the /api/v1 group.
func (h *BoardHandler) RegisterAPIRoutes(rg *gin.RouterGroup) {
	rg.GET("/board", h.GetBoard)
	rg.POST("/sort", h.SortQuotes)

	quotes := rg.Group("/quotes")
	quotes.POST("", h.CreateQuote)
	quotes.PATCH("/:id", h.UpdateQuote)
	quotes.DELETE("/:id", h.DeleteQuote)
	quotes.POST("/:id/likes", h.LikeQuote)
}
