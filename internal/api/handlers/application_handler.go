package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/services"
	"github.com/hirehub/jobportal/internal/utils"
)

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	app, err := h.svc.Apply(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Job applied successfully.", gin.H{"application": app})
}

func (h *ApplicationHandler) Applied(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	apps, err := h.svc.AppliedJobs(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Applications found.", gin.H{"application": apps})
}

func (h *ApplicationHandler) Applicants(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	job, err := h.svc.Applicants(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Applicants found.", gin.H{"job": job})
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	app, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Application found.", gin.H{"application": app})
}

type InterviewDetailsRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

type UpdateStatusRequest struct {
	Status           string                   `json:"status"`
	InterviewDetails *InterviewDetailsRequest `json:"interviewDetails"`
}

// parseInterviewDate accepts a calendar date or an RFC 3339 timestamp.
func parseInterviewDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if d, err := time.Parse("2006-01-02", v); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func (r UpdateStatusRequest) toDetails(op string) (*models.InterviewDetails, error) {
	d := r.InterviewDetails
	if d == nil || (d.Date == "" && d.Time == "" && d.Location == "") {
		return nil, nil
	}
	if strings.TrimSpace(d.Date) == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Interview date is required.", nil)
	}
	date, err := parseInterviewDate(d.Date)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Interview date must be YYYY-MM-DD or RFC 3339.", err)
	}
	return &models.InterviewDetails{
		Date:     date,
		Time:     strings.TrimSpace(d.Time),
		Location: strings.TrimSpace(d.Location),
	}, nil
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	const op = "ApplicationHandler.UpdateStatus"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "Status is required.", nil))
		return
	}
	status, ok := models.ParseApplicationStatus(req.Status)
	if !ok {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "Invalid status.", nil))
		return
	}
	details, err := req.toDetails(op)
	if err != nil {
		writeError(c, err)
		return
	}

	app, err := h.svc.UpdateStatus(c.Request.Context(), userID, c.Param("id"), status, details)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Status updated successfully.", gin.H{"application": app})
}

func (h *ApplicationHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit, err := parseHistoryLimit(c.Query("limit"))
	if err != nil {
		writeError(c, err)
		return
	}

	rows, err := h.svc.History(c.Request.Context(), userID, c.Param("id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "History found.", gin.H{"history": rows})
}

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// parseHistoryLimit reads ?limit=, defaulting when absent and clamping to
// maxHistoryLimit.
func parseHistoryLimit(raw string) (int, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.History", "limit must be a positive integer", err)
	}
	return min(n, maxHistoryLimit), nil
}
