package handlers

import (
	"net/http"

	"coursemarket/internal/application/usecase"
	"coursemarket/internal/domain"
	"coursemarket/internal/metrics"
	"coursemarket/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type UserHandler struct {
	learner  *usecase.LearnerUseCase
	purchase *usecase.PurchaseUseCase
	metrics  *metrics.Metrics
}

func NewUserHandler(learner *usecase.LearnerUseCase, purchase *usecase.PurchaseUseCase, m *metrics.Metrics) *UserHandler {
	return &UserHandler{learner: learner, purchase: purchase, metrics: m}
}

type courseReq struct {
	CourseID string `json:"courseId" binding:"required"`
}

type progressReq struct {
	CourseID  string `json:"courseId" binding:"required"`
	LectureID string `json:"lectureId" binding:"required"`
}

type ratingReq struct {
	CourseID string `json:"courseId" binding:"required"`
	Rating   int    `json:"rating"`
}

func parseCourseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrapf(domain.ErrInvalidInput, "course id %q", raw)
	}
	return id, nil
}

// bind decodes the JSON body and reports a 400 itself when it cannot.
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return false
	}
	return true
}

func (h *UserHandler) GetUserData(c *gin.Context) {
	user, err := h.learner.GetUser(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) EnrolledCourses(c *gin.Context) {
	courses, err := h.learner.EnrolledCourses(c.Request.Context(), c.GetString(middleware.UserIDKey))
	if err != nil {
		writeError(c, err)
		return
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "enrolledCourses": courses})
}

func (h *UserHandler) Purchase(c *gin.Context) {
	var req courseReq
	if !bind(c, &req) {
		return
	}
	courseID, err := parseCourseID(req.CourseID)
	if err != nil {
		writeError(c, err)
		return
	}

	url, err := h.purchase.PurchaseCourse(c.Request.Context(), c.GetString(middleware.UserIDKey), courseID)
	if err != nil {
		h.metrics.ObservePurchase("error")
		writeError(c, err)
		return
	}
	h.metrics.ObservePurchase("pending")
	c.JSON(http.StatusOK, gin.H{"success": true, "session_url": url})
}

func (h *UserHandler) UpdateCourseProgress(c *gin.Context) {
	var req progressReq
	if !bind(c, &req) {
		return
	}
	courseID, err := parseCourseID(req.CourseID)
	if err != nil {
		writeError(c, err)
		return
	}

	added, err := h.learner.CompleteLecture(c.Request.Context(), c.GetString(middleware.UserIDKey), courseID, req.LectureID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !added {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Lecture Already Completed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Progress Updated"})
}

func (h *UserHandler) GetCourseProgress(c *gin.Context) {
	var req courseReq
	if !bind(c, &req) {
		return
	}
	courseID, err := parseCourseID(req.CourseID)
	if err != nil {
		writeError(c, err)
		return
	}

	progress, err := h.learner.CourseProgress(c.Request.Context(), c.GetString(middleware.UserIDKey), courseID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "progressData": progress})
}

func (h *UserHandler) AddRating(c *gin.Context) {
	var req ratingReq
	if !bind(c, &req) {
		return
	}
	courseID, err := parseCourseID(req.CourseID)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.learner.SubmitRating(c.Request.Context(), c.GetString(middleware.UserIDKey), courseID, req.Rating); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Rating added"})
}
