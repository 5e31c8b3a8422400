package attempts

import (
	"errors"
	"net/http"
	"strconv"

	"testhub/internal/middleware"
	"testhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Handler manages HTTP interactions for taking tests and reading results.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterOptionalAuthRoutes mounts the endpoints that serve both anonymous
// and authenticated participants.
func (h *Handler) RegisterOptionalAuthRoutes(optional *gin.RouterGroup) {
	testsGroup := optional.Group("/tests")
	{
		testsGroup.POST("/start", h.Start)
		testsGroup.POST("/submit", h.Submit)
		testsGroup.GET("/attempt/:attemptId", h.ParticipantDetail)
	}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/tests/:id/leaderboard", h.Leaderboard)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	testsGroup := protected.Group("/tests")
	{
		testsGroup.GET("/:id/attempts", h.ListForTest)
		testsGroup.GET("/:id/attempts/:attemptId", h.OwnerDetail)
	}
}

func (h *Handler) Start(c *gin.Context) {
	var req StartAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	started, err := h.service.Start(c.Request.Context(), callerFrom(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Anonymous attempts require a display name")
		case errors.Is(err, ErrTestNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "No test with this code")
		case errors.Is(err, ErrTestGone):
			// 410, not 404: the test existed, its window is over.
			response.Error(c, http.StatusGone, "TEST_EXPIRED", "This test is no longer accepting attempts")
		default:
			response.Error(c, http.StatusInternalServerError, "ATTEMPT_START_FAILED", "Failed to start attempt")
		}
		return
	}

	response.Success(c, http.StatusCreated, started)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Submit(c.Request.Context(), callerFrom(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAttemptNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Attempt not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "This attempt belongs to another user")
		case errors.Is(err, ErrAlreadySubmitted):
			response.Error(c, http.StatusBadRequest, "ALREADY_SUBMITTED", "This attempt was already submitted")
		default:
			response.Error(c, http.StatusInternalServerError, "ATTEMPT_SUBMIT_FAILED", "Failed to submit attempt")
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) ParticipantDetail(c *gin.Context) {
	attemptID, err := strconv.ParseInt(c.Param("attemptId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid attempt ID")
		return
	}

	h.detail(c, attemptID)
}

func (h *Handler) OwnerDetail(c *gin.Context) {
	attemptID, err := strconv.ParseInt(c.Param("attemptId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid attempt ID")
		return
	}

	h.detail(c, attemptID)
}

func (h *Handler) detail(c *gin.Context, attemptID int64) {
	detail, err := h.service.Detail(c.Request.Context(), callerFrom(c), attemptID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAttemptNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Attempt not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You may not view this attempt")
		default:
			response.Error(c, http.StatusInternalServerError, "ATTEMPT_DETAIL_FAILED", "Failed to load attempt")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": detail})
}

func (h *Handler) ListForTest(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	testID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid test ID")
		return
	}

	page, pageSize := pagination(c)

	items, total, err := h.service.ListForTest(c.Request.Context(), ownerID, testID, page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, ErrTestNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Test not found")
		case errors.Is(err, ErrForbiddenAttemptsList):
			response.Error(c, http.StatusForbidden, "FORBIDDEN_TEST_ATTEMPTS_LIST", "Only the test owner may list attempts")
		default:
			response.Error(c, http.StatusInternalServerError, "ATTEMPT_LIST_FAILED", "Failed to list attempts")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": items,
		"total": total,
	})
}

func (h *Handler) Leaderboard(c *gin.Context) {
	testID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid test ID")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.service.Leaderboard(c.Request.Context(), testID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LEADERBOARD_FAILED", "Failed to load leaderboard")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"leaderboard": entries})
}

func callerFrom(c *gin.Context) Caller {
	id, ok := middleware.CallerID(c)
	return Caller{UserID: id, Authenticated: ok}
}

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
