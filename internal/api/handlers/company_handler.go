package handlers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/services"
	"github.com/hirehub/jobportal/internal/utils"
)

type CompanyHandler struct {
	svc       services.CompanyService
	maxUpload int64
}

func NewCompanyHandler(svc services.CompanyService, maxUpload int64) *CompanyHandler {
	return &CompanyHandler{svc: svc, maxUpload: maxUpload}
}

type RegisterCompanyRequest struct {
	CompanyName string `json:"companyName" form:"companyName"`
}

func (h *CompanyHandler) Register(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req RegisterCompanyRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CompanyHandler.Register", "invalid request body", err))
		return
	}

	company, err := h.svc.Register(c.Request.Context(), userID, req.CompanyName)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Company registered successfully.", gin.H{"company": company})
}

func (h *CompanyHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	companies, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Companies found.", gin.H{"companies": companies})
}

func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Company found.", gin.H{"company": company})
}

type UpdateCompanyRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Website     string `json:"website" form:"website"`
	Location    string `json:"location" form:"location"`
}

func (h *CompanyHandler) Update(c *gin.Context) {
	const op = "CompanyHandler.Update"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req UpdateCompanyRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	logo, closeFn, err := formFile(c, op, "file", h.maxUpload)
	if err != nil {
		writeError(c, err)
		return
	}
	defer closeFn()

	company, err := h.svc.Update(c.Request.Context(), userID, c.Param("id"), services.CompanyInput{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		Logo:        logo,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Company information updated.", gin.H{"company": company})
}

// Edit accepts {"field": "...", "value": "..."} or an object of editable keys.
// Multipart requests carry field/value form values and an optional logo file.
func (h *CompanyHandler) Edit(c *gin.Context) {
	const op = "CompanyHandler.Edit"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var (
		patch models.CompanyPatch
		logo  *services.FileUpload
	)
	if isMultipart(c) {
		var closeFn func()
		var err error
		logo, closeFn, err = formFile(c, op, "file", h.maxUpload)
		if err != nil {
			writeError(c, err)
			return
		}
		defer closeFn()

		if field := c.PostForm("field"); field != "" {
			if !patch.Set(field, c.PostForm("value")) {
				writeError(c, notEditable(op, field))
				return
			}
		}
	} else {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
			return
		}
		p, err := parseCompanyPatch(op, body)
		if err != nil {
			writeError(c, err)
			return
		}
		patch = p
	}

	company, err := h.svc.Edit(c.Request.Context(), userID, c.Param("id"), patch, logo)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Company updated successfully.", gin.H{"data": company})
}

func (h *CompanyHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Company deleted successfully.", nil)
}

func notEditable(op, field string) error {
	return utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("Field '%s' is not allowed to update.", field), nil)
}

func parseCompanyPatch(op string, body map[string]any) (models.CompanyPatch, error) {
	var patch models.CompanyPatch

	if rawField, ok := body["field"]; ok {
		field, _ := rawField.(string)
		value, isString := body["value"].(string)
		if field == "" || !isString {
			return patch, utils.E(utils.CodeInvalidArgument, op, "Invalid request. 'field' and 'value' are required.", nil)
		}
		if !patch.Set(field, value) {
			return patch, notEditable(op, field)
		}
		return patch, nil
	}

	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value, isString := body[k].(string)
		if !patch.Set(k, value) {
			return patch, notEditable(op, k)
		}
		if !isString {
			return patch, utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("Field '%s' must be a string.", k), nil)
		}
	}
	return patch, nil
}
