package services

import (
	"context"
	"errors"
	"strings"

	"github.com/hirehub/jobportal/internal/cache"
	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"github.com/hirehub/jobportal/internal/storage"
	"github.com/hirehub/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompanyInput is the full-field payload of an update.
type CompanyInput struct {
	Name        string
	Description string
	Website     string
	Location    string
	Logo        *FileUpload
}

type CompanyService interface {
	Register(ctx context.Context, userID, name string) (*models.Company, error)
	ListMine(ctx context.Context, userID string) ([]models.Company, error)
	Get(ctx context.Context, companyID string) (*models.Company, error)
	Update(ctx context.Context, userID, companyID string, in CompanyInput) (*models.Company, error)
	Edit(ctx context.Context, userID, companyID string, patch models.CompanyPatch, logo *FileUpload) (*models.Company, error)
	Delete(ctx context.Context, userID, companyID string) error
}

type companyService struct {
	companies repositories.CompanyRepository
	uploader  storage.Uploader
	cache     cache.Cache
}

// NewCompanyService wires the company registry. The cache is only used to drop
// job listings, which embed company data.
func NewCompanyService(companies repositories.CompanyRepository, uploader storage.Uploader, c cache.Cache) CompanyService {
	if c == nil {
		c = cache.Nop{}
	}
	return &companyService{companies: companies, uploader: uploader, cache: c}
}

func (s *companyService) Register(ctx context.Context, userID, name string) (*models.Company, error) {
	const op = "CompanyService.Register"

	owner, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Company name is required.", nil)
	}
	if err := s.ensureNameFree(ctx, op, name, primitive.NilObjectID); err != nil {
		return nil, err
	}

	c := &models.Company{Name: name, UserID: owner}
	if err := s.companies.Create(ctx, c); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "You can't register same company.", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create company", err)
	}
	return c, nil
}

func (s *companyService) ListMine(ctx context.Context, userID string) ([]models.Company, error) {
	const op = "CompanyService.ListMine"

	owner, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	out, err := s.companies.ListByOwner(ctx, owner)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list companies", err)
	}
	return out, nil
}

func (s *companyService) Get(ctx context.Context, companyID string) (*models.Company, error) {
	const op = "CompanyService.Get"

	id, err := parseID(op, "company id", companyID)
	if err != nil {
		return nil, err
	}
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(op, "Company not found.", err)
	}
	return c, nil
}

func (s *companyService) Update(ctx context.Context, userID, companyID string, in CompanyInput) (*models.Company, error) {
	const op = "CompanyService.Update"

	c, err := s.loadOwned(ctx, op, userID, companyID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Company name is required.", nil)
	}
	if name != c.Name {
		if err := s.ensureNameFree(ctx, op, name, c.ID); err != nil {
			return nil, err
		}
	}

	c.Name = name
	c.Description = strings.TrimSpace(in.Description)
	c.Website = strings.TrimSpace(in.Website)
	c.Location = strings.TrimSpace(in.Location)
	if in.Logo != nil {
		url, err := uploadFile(ctx, op, s.uploader, "logos", in.Logo, false)
		if err != nil {
			return nil, err
		}
		c.Logo = url
	}
	return s.save(ctx, op, c)
}

func (s *companyService) Edit(ctx context.Context, userID, companyID string, patch models.CompanyPatch, logo *FileUpload) (*models.Company, error) {
	const op = "CompanyService.Edit"

	if patch.IsEmpty() && logo == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Invalid request. 'field' and 'value' are required.", nil)
	}
	c, err := s.loadOwned(ctx, op, userID, companyID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, "Company name is required.", nil)
		}
		if name != c.Name {
			if err := s.ensureNameFree(ctx, op, name, c.ID); err != nil {
				return nil, err
			}
		}
		patch.Name = &name
	}
	if logo != nil {
		url, err := uploadFile(ctx, op, s.uploader, "logos", logo, false)
		if err != nil {
			return nil, err
		}
		patch.Logo = &url
	}

	patch.Apply(c)
	return s.save(ctx, op, c)
}

func (s *companyService) Delete(ctx context.Context, userID, companyID string) error {
	const op = "CompanyService.Delete"

	c, err := s.loadOwned(ctx, op, userID, companyID)
	if err != nil {
		return err
	}
	if err := s.companies.Delete(ctx, c.ID); err != nil {
		return lookupErr(op, "Company not found.", err)
	}
	_ = s.cache.Invalidate(ctx, cache.JobListPrefix())
	return nil
}

func (s *companyService) loadOwned(ctx context.Context, op, userID, companyID string) (*models.Company, error) {
	owner, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	id, err := parseID(op, "company id", companyID)
	if err != nil {
		return nil, err
	}
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(op, "Company not found.", err)
	}
	if c.UserID != owner {
		return nil, utils.E(utils.CodeForbidden, op, "You can only manage your own companies.", nil)
	}
	return c, nil
}

// ensureNameFree fails with a conflict when another company already uses name.
func (s *companyService) ensureNameFree(ctx context.Context, op, name string, self primitive.ObjectID) error {
	existing, err := s.companies.GetByName(ctx, name)
	switch {
	case err == nil && existing.ID != self:
		return utils.E(utils.CodeConflict, op, "You can't register same company.", nil)
	case err == nil, errors.Is(err, utils.ErrNotFound):
		return nil
	default:
		return utils.E(utils.CodeInternal, op, "failed to check company name", err)
	}
}

func (s *companyService) save(ctx context.Context, op string, c *models.Company) (*models.Company, error) {
	if err := s.companies.Update(ctx, c); err != nil {
		switch {
		case errors.Is(err, utils.ErrDuplicate):
			return nil, utils.E(utils.CodeConflict, op, "You can't register same company.", err)
		case errors.Is(err, utils.ErrNotFound):
			return nil, utils.E(utils.CodeNotFound, op, "Company not found.", err)
		default:
			return nil, utils.E(utils.CodeInternal, op, "failed to update company", err)
		}
	}
	_ = s.cache.Invalidate(ctx, cache.JobListPrefix())
	return c, nil
}
