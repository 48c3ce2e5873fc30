package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hirehub/jobportal/internal/services"
	"github.com/hirehub/jobportal/internal/utils"
)

type JobHandler struct {
	svc services.JobService
}

func NewJobHandler(svc services.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

// looseStrings accepts a JSON list or a comma separated string.
type looseStrings []string

func (l *looseStrings) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*l = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*l = strings.Split(s, ",")
	return nil
}

// looseNumber accepts a JSON number or a numeric string. Raw is empty when
// the value was absent, null or blank.
type looseNumber struct {
	Raw string
}

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		n.Raw = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n.Raw = strings.TrimSpace(s)
		return nil
	}
	n.Raw = string(b)
	return nil
}

type JobRequest struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Requirements looseStrings `json:"requirements"`
	Salary       looseNumber  `json:"salary"`
	Location     string       `json:"location"`
	JobType      string       `json:"jobType"`
	Experience   string       `json:"experience"`
	Position     looseNumber  `json:"position"`
	CompanyID    string       `json:"companyId"`
}

func (r JobRequest) toInput(op string) (services.JobInput, error) {
	in := services.JobInput{
		Title:        r.Title,
		Description:  r.Description,
		Requirements: r.Requirements,
		Location:     r.Location,
		JobType:      r.JobType,
		Experience:   r.Experience,
		CompanyID:    r.CompanyID,
	}
	if r.Salary.Raw != "" {
		v, err := strconv.ParseFloat(r.Salary.Raw, 64)
		if err != nil {
			return in, utils.E(utils.CodeInvalidArgument, op, "salary must be a number", err)
		}
		in.Salary = &v
	}
	if r.Position.Raw != "" {
		v, err := strconv.Atoi(r.Position.Raw)
		if err != nil {
			return in, utils.E(utils.CodeInvalidArgument, op, "position must be an integer", err)
		}
		in.Position = &v
	}
	return in, nil
}

func (h *JobHandler) bind(c *gin.Context, op string) (services.JobInput, bool) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return services.JobInput{}, false
	}
	in, err := req.toInput(op)
	if err != nil {
		writeError(c, err)
		return services.JobInput{}, false
	}
	return in, true
}

func (h *JobHandler) Post(c *gin.Context) {
	const op = "JobHandler.Post"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	in, ok := h.bind(c, op)
	if !ok {
		return
	}
	job, err := h.svc.Post(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, "New job created successfully.", gin.H{"job": job})
}

func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.svc.List(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Jobs found.", gin.H{"jobs": jobs})
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Job found.", gin.H{"job": job})
}

func (h *JobHandler) ListMine(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	jobs, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Jobs found.", gin.H{"jobs": jobs})
}

func (h *JobHandler) Update(c *gin.Context) {
	const op = "JobHandler.Update"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	in, ok := h.bind(c, op)
	if !ok {
		return
	}
	job, err := h.svc.Update(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Job updated successfully.", gin.H{"job": job})
}

func (h *JobHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Job deleted successfully.", nil)
}
