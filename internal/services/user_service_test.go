package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hirehub/jobportal/internal/auth"
	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/storage"
	"github.com/hirehub/jobportal/internal/utils"
)

func appMessage(err error) string {
	var ae *utils.AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t, ApplicationPolicy{})
	ctx := context.Background()

	u := f.register(t, "Ada@Example.com ", models.RoleSeeker)
	if u.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.Password == "secret123" || u.Password == "" {
		t.Fatalf("password stored in clear")
	}

	sess, err := f.users.Login(ctx, "ada@example.com", "secret123", "seeker")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token == "" || sess.User.ID != u.ID {
		t.Fatalf("unexpected session %+v", sess)
	}

	// the web client's label for seekers
	if _, err := f.users.Login(ctx, "ada@example.com", "secret123", "student"); err != nil {
		t.Fatalf("login with alias: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t, ApplicationPolicy{})
	f.register(t, "ada@example.com", models.RoleSeeker)

	_, err := f.users.Register(context.Background(), RegisterInput{
		FullName: "Other", Email: "ADA@example.com", PhoneNumber: "1", Password: "x", Role: "recruiter",
	})
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if appMessage(err) != "User already exists with this email." {
		t.Fatalf("message = %q", appMessage(err))
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t, ApplicationPolicy{})
	ctx := context.Background()

	_, err := f.users.Register(ctx, RegisterInput{FullName: "A", PhoneNumber: "1", Role: "seeker"})
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if appMessage(err) != "Missing fields: email, password" {
		t.Fatalf("message = %q", appMessage(err))
	}

	_, err = f.users.Register(ctx, RegisterInput{FullName: "A", Email: "a@b.c", PhoneNumber: "1", Password: "p", Role: "admin"})
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("unknown role: expected invalid argument, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t, ApplicationPolicy{})
	f.register(t, "rita@example.com", models.RoleRecruiter)
	ctx := context.Background()

	tests := []struct {
		name, email, password, role, msg string
	}{
		{"unknown email", "nobody@example.com", "secret123", "recruiter", "Incorrect email or password."},
		{"wrong password", "rita@example.com", "nope", "recruiter", "Incorrect email or password."},
		{"wrong role", "rita@example.com", "secret123", "seeker", "Account doesn't exist with current role."},
		{"bogus role", "rita@example.com", "secret123", "admin", "Account doesn't exist with current role."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := f.users.Login(ctx, tt.email, tt.password, tt.role)
			if sess != nil {
				t.Fatalf("expected no session")
			}
			if !utils.IsCode(err, utils.CodeInvalidCredentials) {
				t.Fatalf("expected invalid credentials, got %v", err)
			}
			if appMessage(err) != tt.msg {
				t.Fatalf("message = %q, want %q", appMessage(err), tt.msg)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t, ApplicationPolicy{})
	ctx := context.Background()
	u := f.register(t, "ada@example.com", models.RoleSeeker)
	f.register(t, "taken@example.com", models.RoleSeeker)

	bio := "Gopher"
	skills := " go, , sql ,k8s"
	blank := "  "
	got, err := f.users.UpdateProfile(ctx, u.ID.Hex(), ProfileUpdate{
		Bio:      &bio,
		Skills:   &skills,
		FullName: &blank,
		Resume: &FileUpload{
			FileName:    "cv.pdf",
			ContentType: "application/pdf",
			Body:        strings.NewReader("%PDF-1.4"),
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.FullName != u.FullName {
		t.Fatalf("blank name should be ignored, got %q", got.FullName)
	}
	if strings.Join(got.Profile.Skills, "|") != "go|sql|k8s" {
		t.Fatalf("skills = %v", got.Profile.Skills)
	}
	if !strings.HasPrefix(got.Profile.Resume, "data:application/pdf;base64,") || got.Profile.ResumeOriginalName != "cv.pdf" {
		t.Fatalf("resume not stored: %+v", got.Profile)
	}

	taken := "taken@example.com"
	if _, err := f.users.UpdateProfile(ctx, u.ID.Hex(), ProfileUpdate{Email: &taken}); !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateProfileUploadTooLarge(t *testing.T) {
	f := newFixture(t, ApplicationPolicy{})
	u := f.register(t, "ada@example.com", models.RoleSeeker)

	_, err := f.users.UpdateProfile(context.Background(), u.ID.Hex(), ProfileUpdate{
		Resume: &FileUpload{FileName: "big.pdf", ContentType: "application/pdf", Body: strings.NewReader(strings.Repeat("x", 2<<10))},
	})
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

type recordingUploader struct {
	objects []storage.Object
}

func (u *recordingUploader) Upload(_ context.Context, obj storage.Object, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	u.objects = append(u.objects, obj)
	return "https://files.example.com/" + obj.Name, nil
}

func TestUploadsKeepResumeName(t *testing.T) {
	f := newFixture(t, ApplicationPolicy{})
	u := f.register(t, "ada@example.com", models.RoleSeeker)
	up := &recordingUploader{}
	svc := NewUserService(f.userRepo, up, auth.NewTokenManager("test-secret", time.Hour), 4)

	got, err := svc.UpdateProfile(context.Background(), u.ID.Hex(), ProfileUpdate{
		Photo:  &FileUpload{FileName: "Me.PNG", ContentType: "image/png", Body: strings.NewReader("png")},
		Resume: &FileUpload{FileName: "Ada Resume.pdf", ContentType: "application/pdf", Body: strings.NewReader("%PDF")},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(up.objects) != 2 {
		t.Fatalf("uploaded %d objects", len(up.objects))
	}
	photo, resume := up.objects[0], up.objects[1]
	if !strings.HasPrefix(photo.Name, "photos/") || !strings.HasSuffix(photo.Name, ".png") || photo.DownloadName != "" {
		t.Fatalf("photo object = %+v", photo)
	}
	if !strings.HasPrefix(resume.Name, "resumes/") || resume.DownloadName != "Ada Resume.pdf" || resume.ContentType != "application/pdf" {
		t.Fatalf("resume object = %+v", resume)
	}
	if got.Profile.Resume != "https://files.example.com/"+resume.Name || got.Profile.ResumeOriginalName != "Ada Resume.pdf" {
		t.Fatalf("profile = %+v", got.Profile)
	}
}
