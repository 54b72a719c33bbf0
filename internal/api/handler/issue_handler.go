package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jiralite/tracker/internal/api/metrics"
	"github.com/jiralite/tracker/internal/core/domain"
	"github.com/jiralite/tracker/internal/core/ports"
)

// IssueHandler handles HTTP requests for issues and their watchers.
type IssueHandler struct {
	service ports.IssueService
}

func NewIssueHandler(service ports.IssueService) *IssueHandler {
	return &IssueHandler{service: service}
}

// Create handles POST /v1/issues.
//
// @Summary      Create an issue
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createIssueRequest  true   "Issue details"
// @Success      201              {object}  issueResponse
// @Success      200              {object}  issueResponse  "Replayed idempotent request"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/issues [post]
func (h *IssueHandler) Create(c echo.Context) error {
	actorID, err := ctxActorID(c)
	if err != nil {
		return err
	}
	var req createIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	key := c.Request().Header.Get("Idempotency-Key")
	detail, err := h.service.Create(c.Request().Context(), toCreateIssueInput(req, actorID, key))
	if err != nil {
		return err
	}

	if detail.AlreadyExisted {
		return c.JSON(http.StatusOK, toIssueResponse(detail))
	}
	metrics.IssuesCreatedTotal.WithLabelValues(string(detail.Type)).Inc()
	return c.JSON(http.StatusCreated, toIssueResponse(detail))
}

// Get handles GET /v1/issues/:id.
//
// @Summary      Get an issue
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Issue id"
// @Success      200  {object}  issueResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/issues/{id} [get]
func (h *IssueHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueResponse(detail))
}

// Update handles PATCH /v1/issues/:id.
//
// @Summary      Update issue fields
// @Description  Title, description and priority need reporter, assignee or admin; severity and type need reporter or admin.
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Issue id"
// @Param        body  body      updateIssueRequest  true  "Fields to change"
// @Success      200   {object}  issueResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/issues/{id} [patch]
func (h *IssueHandler) Update(c echo.Context) error {
	actorID, err := ctxActorID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	detail, err := h.service.Update(c.Request().Context(), toUpdateIssueInput(req, actorID, id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueResponse(detail))
}

// Delete handles DELETE /v1/issues/:id.
//
// @Summary      Delete an issue and its comments
// @Tags         issues
// @Security     BearerAuth
// @Param        id   path  int  true  "Issue id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/issues/{id} [delete]
func (h *IssueHandler) Delete(c echo.Context) error {
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

// ChangeStatus handles PATCH /v1/issues/:id/status.
//
// @Summary      Change issue status
// @Description  The assignee may make any transition; the reporter may only reopen a closed issue.
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Issue id"
// @Param        body  body      changeStatusRequest  true  "Target status and optional comment"
// @Success      200   {object}  issueResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/issues/{id}/status [patch]
func (h *IssueHandler) ChangeStatus(c echo.Context) error {
	actorID, err := ctxActorID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	detail, err := h.service.ChangeStatus(c.Request().Context(), ports.ChangeStatusInput{
		ActorID: actorID,
		IssueID: id,
		Target:  domain.IssueStatus(req.Status),
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	metrics.StatusTransitionsTotal.WithLabelValues(string(detail.Status)).Inc()
	return c.JSON(http.StatusOK, toIssueResponse(detail))
}

// Assign handles PATCH /v1/issues/:id/assignee.
//
// @Summary      Assign or claim an issue
// @Description  Without assignee_id the caller claims the issue. The reporter can never be the assignee.
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true   "Issue id"
// @Param        body  body      assignRequest  false  "Target user"
// @Success      200   {object}  issueResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/issues/{id}/assignee [patch]
func (h *IssueHandler) Assign(c echo.Context) error {
	actorID, err := ctxActorID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	detail, err := h.service.Assign(c.Request().Context(), ports.AssignInput{
		ActorID:    actorID,
		IssueID:    id,
		AssigneeID: req.AssigneeID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueResponse(detail))
}

// Search handles GET /v1/issues.
//
// @Summary      Search issues
// @Description  Per-field query parameters and an AIP-160 filter may be combined; all constraints are ANDed.
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        title         query     string  false  "Case-insensitive substring"
// @Param        status        query     string  false  "OPEN, IN_PROGRESS, REVIEW or CLOSED"
// @Param        priority      query     string  false  "LOW, MEDIUM, HIGH or CRITICAL"
// @Param        severity      query     string  false  "S1 to S4"
// @Param        type          query     string  false  "BUG, TASK, FEATURE or IMPROVEMENT"
// @Param        assignee_id   query     int     false  "Assignee id"
// @Param        reporter_id   query     int     false  "Reporter id"
// @Param        created_from  query     string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Param        created_to    query     string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Param        filter        query     string  false  "AIP-160 filter expression"
// @Param        page          query     int     false  "Page number (1-based)"
// @Param        limit         query     int     false  "Page size (max 100)"
// @Success      200           {object}  issueListResponse
// @Failure      400           {object}  errorResponse
// @Router       /v1/issues [get]
func (h *IssueHandler) Search(c echo.Context) error {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := parseIssueFilter(c.QueryParam("filter"), &criteria); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	result, err := h.service.Search(c.Request().Context(), ports.SearchIssuesInput{
		Criteria: criteria,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueListResponse(result))
}

// AddWatcher handles POST /v1/issues/:id/watchers.
//
// @Summary      Watch an issue (not implemented)
// @Tags         watchers
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int             true  "Issue id"
// @Param        body  body  watcherRequest  true  "User to add"
// @Failure      501   {object}  errorResponse
// @Router       /v1/issues/{id}/watchers [post]
func (h *IssueHandler) AddWatcher(c echo.Context) error {
	actorID, err := ctxActorID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req watcherRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if err := h.service.AddWatcher(c.Request().Context(), actorID, id, req.UserID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveWatcher handles DELETE /v1/issues/:id/watchers/:userId.
//
// @Summary      Stop watching an issue (not implemented)
// @Tags         watchers
// @Security     BearerAuth
// @Param        id      path  int  true  "Issue id"
// @Param        userId  path  int  true  "User id"
// @Failure      501     {object}  errorResponse
// @Router       /v1/issues/{id}/watchers/{userId} [delete]
func (h *IssueHandler) RemoveWatcher(c echo.Context) error {
	actorID, err := ctxActorID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if err := h.service.RemoveWatcher(c.Request().Context(), actorID, id, userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListWatchers handles GET /v1/issues/:id/watchers.
//
// @Summary      List issue watchers
// @Tags         watchers
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      int  true   "Issue id"
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  userListResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/issues/{id}/watchers [get]
func (h *IssueHandler) ListWatchers(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}
	result, err := h.service.ListWatchers(c.Request().Context(), id, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserListResponse(result))
}

// criteriaFromQuery reads the per-field search parameters.
func criteriaFromQuery(c echo.Context) (domain.IssueCriteria, error) {
	var crit domain.IssueCriteria
	q := c.QueryParams()

	for name, dst := range map[string]**int64{
		"id":          &crit.ID,
		"assignee_id": &crit.AssigneeID,
		"reporter_id": &crit.ReporterID,
	} {
		if raw := q.Get(name); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return crit, &domain.ValidationError{Field: name, Message: "must be an integer"}
			}
			*dst = &v
		}
	}

	if raw := strings.TrimSpace(q.Get("title")); raw != "" {
		crit.Title = &raw
	}
	if raw := q.Get("status"); raw != "" {
		v := domain.IssueStatus(strings.ToUpper(raw))
		if !v.Valid() {
			return crit, &domain.ValidationError{Field: "status", Message: "unknown value " + raw}
		}
		crit.Status = &v
	}
	if raw := q.Get("priority"); raw != "" {
		v := domain.Priority(strings.ToUpper(raw))
		if !v.Valid() {
			return crit, &domain.ValidationError{Field: "priority", Message: "unknown value " + raw}
		}
		crit.Priority = &v
	}
	if raw := q.Get("severity"); raw != "" {
		v := domain.Severity(strings.ToUpper(raw))
		if !v.Valid() {
			return crit, &domain.ValidationError{Field: "severity", Message: "unknown value " + raw}
		}
		crit.Severity = &v
	}
	if raw := q.Get("type"); raw != "" {
		v := domain.IssueType(strings.ToUpper(raw))
		if !v.Valid() {
			return crit, &domain.ValidationError{Field: "type", Message: "unknown value " + raw}
		}
		crit.Type = &v
	}

	var err error
	if crit.CreatedFrom, err = queryTime(q.Get("created_from"), "created_from", false); err != nil {
		return crit, err
	}
	if crit.CreatedTo, err = queryTime(q.Get("created_to"), "created_to", true); err != nil {
		return crit, err
	}
	return crit, nil
}

// queryTime accepts RFC3339 or a bare date. A bare upper bound covers the
// whole day.
func queryTime(raw, field string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, &domain.ValidationError{Field: field, Message: "must be RFC3339 or YYYY-MM-DD"}
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
