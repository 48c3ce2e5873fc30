package client

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// File is an upload attached to a multipart request.
type File struct {
	Name    string
	Content io.Reader
}

// Users.

func (c *Client) Register(ctx context.Context, in RegisterRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/user/register", in, nil)
	return err
}

func (c *Client) Login(ctx context.Context, email, password, role string) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	_, err := c.do(ctx, http.MethodPost, "/user/login", map[string]string{
		"email": email, "password": password, "role": role,
	}, &out)
	return out.User, err
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/user/logout", nil, nil)
	return err
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	_, err := c.do(ctx, http.MethodGet, "/user/me", nil, &out)
	return out.User, err
}

// UpdateProfile sends a JSON body, or multipart when resume is set.
func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate, resume *File) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if resume == nil {
		_, err := c.do(ctx, http.MethodPost, "/user/profile/update", in, &out)
		return out.User, err
	}
	req, err := c.multipart(ctx, http.MethodPost, "/user/profile/update", map[string]string{
		"fullname":    in.FullName,
		"email":       in.Email,
		"phoneNumber": in.PhoneNumber,
		"bio":         in.Bio,
		"skills":      in.Skills,
	}, resume)
	if err != nil {
		return nil, err
	}
	_, err = c.send(req, &out)
	return out.User, err
}

// Companies.

func (c *Client) RegisterCompany(ctx context.Context, name string) (*Company, error) {
	var out struct {
		Company *Company `json:"company"`
	}
	_, err := c.do(ctx, http.MethodPost, "/company/register", map[string]string{"companyName": name}, &out)
	return out.Company, err
}

func (c *Client) Companies(ctx context.Context) ([]Company, error) {
	var out struct {
		Companies []Company `json:"companies"`
	}
	_, err := c.do(ctx, http.MethodGet, "/company/get", nil, &out)
	return out.Companies, err
}

func (c *Client) Company(ctx context.Context, id string) (*Company, error) {
	var out struct {
		Company *Company `json:"company"`
	}
	_, err := c.do(ctx, http.MethodGet, "/company/get/"+url.PathEscape(id), nil, &out)
	return out.Company, err
}

func (c *Client) UpdateCompany(ctx context.Context, id string, in CompanyUpdate) (*Company, error) {
	var out struct {
		Company *Company `json:"company"`
	}
	_, err := c.do(ctx, http.MethodPut, "/company/update/"+url.PathEscape(id), in, &out)
	return out.Company, err
}

// EditCompany changes a single field.
func (c *Client) EditCompany(ctx context.Context, id, field, value string) (*Company, error) {
	var out struct {
		Data *Company `json:"data"`
	}
	_, err := c.do(ctx, http.MethodPatch, "/company/edit/"+url.PathEscape(id), map[string]string{
		"field": field, "value": value,
	}, &out)
	return out.Data, err
}

func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/company/delete/"+url.PathEscape(id), nil, nil)
	return err
}

// Jobs.

func (c *Client) PostJob(ctx context.Context, in JobInput) (*Job, error) {
	var out struct {
		Job *Job `json:"job"`
	}
	_, err := c.do(ctx, http.MethodPost, "/job/post", in, &out)
	return out.Job, err
}

func (c *Client) Jobs(ctx context.Context, keyword string) ([]Job, error) {
	var out struct {
		Jobs []Job `json:"jobs"`
	}
	path := "/job/get"
	if keyword != "" {
		path += "?keyword=" + url.QueryEscape(keyword)
	}
	_, err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Jobs, err
}

func (c *Client) Job(ctx context.Context, id string) (*Job, error) {
	var out struct {
		Job *Job `json:"job"`
	}
	_, err := c.do(ctx, http.MethodGet, "/job/get/"+url.PathEscape(id), nil, &out)
	return out.Job, err
}

func (c *Client) AdminJobs(ctx context.Context) ([]Job, error) {
	var out struct {
		Jobs []Job `json:"jobs"`
	}
	_, err := c.do(ctx, http.MethodGet, "/job/getadminjobs", nil, &out)
	return out.Jobs, err
}

func (c *Client) UpdateJob(ctx context.Context, id string, in JobInput) (*Job, error) {
	var out struct {
		Job *Job `json:"job"`
	}
	_, err := c.do(ctx, http.MethodPut, "/job/update/"+url.PathEscape(id), in, &out)
	return out.Job, err
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/job/delete/"+url.PathEscape(id), nil, nil)
	return err
}

// Applications.

func (c *Client) Apply(ctx context.Context, jobID string) (*Application, error) {
	var out struct {
		Application *Application `json:"application"`
	}
	_, err := c.do(ctx, http.MethodPost, "/application/apply/"+url.PathEscape(jobID), nil, &out)
	return out.Application, err
}

func (c *Client) AppliedJobs(ctx context.Context) ([]Application, error) {
	var out struct {
		Applications []Application `json:"application"`
	}
	_, err := c.do(ctx, http.MethodGet, "/application/get", nil, &out)
	return out.Applications, err
}

// Applicants returns the job with its applications and applicants populated.
func (c *Client) Applicants(ctx context.Context, jobID string) (*Job, error) {
	var out struct {
		Job *Job `json:"job"`
	}
	_, err := c.do(ctx, http.MethodGet, "/application/"+url.PathEscape(jobID)+"/applicants", nil, &out)
	return out.Job, err
}

func (c *Client) Application(ctx context.Context, id string) (*Application, error) {
	var out struct {
		Application *Application `json:"application"`
	}
	_, err := c.do(ctx, http.MethodGet, "/application/"+url.PathEscape(id), nil, &out)
	return out.Application, err
}

func (c *Client) UpdateStatus(ctx context.Context, id, status string, interview *Interview) (*Application, error) {
	var out struct {
		Application *Application `json:"application"`
	}
	body := map[string]any{"status": status}
	if interview != nil {
		body["interviewDetails"] = interview
	}
	_, err := c.do(ctx, http.MethodPost, "/application/status/"+url.PathEscape(id)+"/update", body, &out)
	return out.Application, err
}

func (c *Client) History(ctx context.Context, id string) ([]HistoryEntry, error) {
	var out struct {
		History []HistoryEntry `json:"history"`
	}
	_, err := c.do(ctx, http.MethodGet, "/application/"+url.PathEscape(id)+"/history", nil, &out)
	return out.History, err
}

func (c *Client) multipart(ctx context.Context, method, path string, fields map[string]string, f *File) (*http.Request, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if f != nil {
		fw, err := mw.CreateFormFile("file", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(fw, f.Content); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}
