package handlers

import (
	"net/http"

	"coursemarket/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	learner *usecase.LearnerUseCase
}

func NewCourseHandler(learner *usecase.LearnerUseCase) *CourseHandler {
	return &CourseHandler{learner: learner}
}

func (h *CourseHandler) GetOne(c *gin.Context) {
	courseID, err := parseCourseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	details, err := h.learner.CourseDetails(c.Request.Context(), courseID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "courseData": details})
}
