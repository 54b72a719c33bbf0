package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jiralite/tracker/internal/core/ports"
)

// CommentHandler handles HTTP requests for issue comments.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// Add handles POST /v1/issues/:id/comments.
//
// @Summary      Comment on an issue
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Issue id"
// @Param        body  body      commentRequest  true  "Comment text"
// @Success      201   {object}  commentResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/issues/{id}/comments [post]
func (h *CommentHandler) Add(c echo.Context) error {
	actorID, err := ctxActorID(c)
	if err != nil {
		return err
	}
	issueID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	detail, err := h.service.Add(c.Request().Context(), ports.AddCommentInput{
		ActorID: actorID,
		IssueID: issueID,
		Text:    req.Text,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(detail))
}

// List handles GET /v1/issues/:id/comments.
//
// @Summary      List comments of an issue, oldest first
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int  true   "Issue id"
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  commentListResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/issues/{id}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	issueID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}
	result, err := h.service.List(c.Request().Context(), issueID, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentListResponse(result))
}

// Update handles PUT /v1/comments/:id.
//
// @Summary      Edit a comment
// @Description  Only the author or an administrator may edit.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Comment id"
// @Param        body  body      commentRequest  true  "New text"
// @Success      200   {object}  commentResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	actorID, err := ctxActorID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	detail, err := h.service.Update(c.Request().Context(), ports.UpdateCommentInput{
		ActorID:   actorID,
		CommentID: id,
		Text:      req.Text,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(detail))
}

// Delete handles DELETE /v1/comments/:id.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id   path  int  true  "Comment id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	actorID, err := ctxActorID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actorID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
