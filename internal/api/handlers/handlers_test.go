package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hirehub/jobportal/internal/utils"
)

func TestParseCompanyPatch(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		fields  []string
		wantErr string
	}{
		{"field value", `{"field":"name","value":"Acme"}`, []string{"name"}, ""},
		{"object", `{"website":"https://a.test","location":"Oslo"}`, []string{"website", "location"}, ""},
		{"unknown field", `{"field":"userId","value":"x"}`, nil, "Field 'userId' is not allowed to update."},
		{"unknown key", `{"name":"Acme","owner":"x"}`, nil, "Field 'owner' is not allowed to update."},
		{"missing value", `{"field":"name"}`, nil, "Invalid request. 'field' and 'value' are required."},
		{"non string", `{"name":42}`, nil, "Field 'name' must be a string."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			if err := json.Unmarshal([]byte(tt.body), &body); err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			patch, err := parseCompanyPatch("test", body)
			if tt.wantErr != "" {
				var ae *utils.AppError
				if !errors.As(err, &ae) || ae.Message != tt.wantErr {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			got := patch.Fields()
			if len(got) != len(tt.fields) {
				t.Fatalf("fields = %v, want %v", got, tt.fields)
			}
		})
	}
}

func TestJobRequestLooseFields(t *testing.T) {
	var req JobRequest
	body := `{"requirements":"Go, SQL","salary":"1200","position":2}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	in, err := req.toInput("test")
	if err != nil {
		t.Fatalf("toInput: %v", err)
	}
	if len(in.Requirements) != 2 || in.Salary == nil || *in.Salary != 1200 || in.Position == nil || *in.Position != 2 {
		t.Fatalf("unexpected input %+v", in)
	}

	var empty JobRequest
	_ = json.Unmarshal([]byte(`{"salary":null,"position":" "}`), &empty)
	in, err = empty.toInput("test")
	if err != nil || in.Salary != nil || in.Position != nil {
		t.Fatalf("blank numbers should be absent: %+v %v", in, err)
	}

	var bad JobRequest
	_ = json.Unmarshal([]byte(`{"position":"2.5"}`), &bad)
	if _, err := bad.toInput("test"); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestParseInterviewDate(t *testing.T) {
	d, err := parseInterviewDate("2024-06-01")
	if err != nil || !d.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %v, %v", d, err)
	}
	ts, err := parseInterviewDate("2024-06-01T09:30:00+02:00")
	if err != nil || ts.Hour() != 7 || ts.Location() != time.UTC {
		t.Fatalf("timestamp = %v, %v", ts, err)
	}
	if _, err := parseInterviewDate("01/06/2024"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	writeError(c, utils.E(utils.CodeInternal, "JobService.List", "failed to search jobs", errors.New("mongo: connection refused")))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["message"] != "Internal server error" || body["success"] != false {
		t.Fatalf("unexpected body %v", body)
	}
	if len(c.Errors) != 1 {
		t.Fatalf("cause should be attached for the request logger")
	}
}

func TestParseHistoryLimit(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 50, false},
		{"10", 10, false},
		{"200", 200, false},
		{"5000", 200, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"ten", 0, true},
	}
	for _, tt := range tests {
		got, err := parseHistoryLimit(tt.raw)
		if tt.wantErr {
			if !utils.IsCode(err, utils.CodeInvalidArgument) {
				t.Fatalf("%q: expected invalid argument, got %v", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("%q: got %d, %v; want %d", tt.raw, got, err, tt.want)
		}
	}
}
