package tests

import (
	"errors"
	"net/http"
	"strconv"

	"testhub/internal/pkg/response"
	"testhub/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Handler manages HTTP interactions for test authoring and the public
// profile view.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/users/:id", h.PublicProfile)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	testsGroup := protected.Group("/tests")
	{
		testsGroup.POST("", h.Create)
		testsGroup.GET("/mine", h.ListMine)
		testsGroup.GET("/mine/:id", h.GetMine)
		testsGroup.POST("/:id/close", h.Close)
	}
}

func (h *Handler) Create(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	var req CreateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if fieldErrors := validator.Validate(&req); fieldErrors != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid test definition", fieldErrors)
		return
	}

	test, err := h.service.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid test definition")
			return
		}
		response.Error(c, http.StatusInternalServerError, "TEST_CREATE_FAILED", "Failed to create test")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"test": toOwnerTestResponse(test)})
}

func (h *Handler) ListMine(c *gin.Context) {
	ownerID := c.GetInt64("user_id")
	page, pageSize := pagination(c)

	items, total, err := h.service.ListMine(c.Request.Context(), ownerID, page, pageSize)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "TEST_LIST_FAILED", "Failed to list tests")
		return
	}

	out := make([]OwnerTestResponse, 0, len(items))
	for i := range items {
		out = append(out, toOwnerTestResponse(&items[i]))
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": out,
		"total": total,
	})
}

func (h *Handler) GetMine(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	testID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid test ID")
		return
	}

	test, err := h.service.GetMine(c.Request.Context(), ownerID, testID)
	if err != nil {
		switch {
		case errors.Is(err, ErrTestNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Test not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this test")
		default:
			response.Error(c, http.StatusInternalServerError, "TEST_GET_FAILED", "Failed to load test")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": toOwnerTestResponse(test)})
}

func (h *Handler) Close(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	testID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid test ID")
		return
	}

	if err := h.service.Close(c.Request.Context(), ownerID, testID); err != nil {
		switch {
		case errors.Is(err, ErrTestNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Test not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this test")
		default:
			response.Error(c, http.StatusInternalServerError, "TEST_CLOSE_FAILED", "Failed to close test")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"closed": true})
}

func (h *Handler) PublicProfile(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user ID")
		return
	}

	profile, err := h.service.PublicProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "PROFILE_FAILED", "Failed to load profile")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
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
