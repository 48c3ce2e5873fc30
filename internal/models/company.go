package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Company struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Website     string             `bson:"website,omitempty" json:"website,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Logo        string             `bson:"logo,omitempty" json:"logo,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// EditableCompanyFields is the closed set of keys accepted by CompanyPatch.
var EditableCompanyFields = []string{"name", "description", "website", "location", "logo"}

// CompanyPatch is a partial company update. Nil fields are left untouched.
type CompanyPatch struct {
	Name        *string
	Description *string
	Website     *string
	Location    *string
	Logo        *string
}

// Set assigns one field by its wire name. It reports false for keys outside
// EditableCompanyFields.
func (p *CompanyPatch) Set(field, value string) bool {
	v := value
	switch field {
	case "name":
		p.Name = &v
	case "description":
		p.Description = &v
	case "website":
		p.Website = &v
	case "location":
		p.Location = &v
	case "logo":
		p.Logo = &v
	default:
		return false
	}
	return true
}

// Fields lists the wire names of the fields that are set, in canonical order.
func (p CompanyPatch) Fields() []string {
	var out []string
	if p.Name != nil {
		out = append(out, "name")
	}
	if p.Description != nil {
		out = append(out, "description")
	}
	if p.Website != nil {
		out = append(out, "website")
	}
	if p.Location != nil {
		out = append(out, "location")
	}
	if p.Logo != nil {
		out = append(out, "logo")
	}
	return out
}

func (p CompanyPatch) IsEmpty() bool { return len(p.Fields()) == 0 }

// Apply copies the set fields onto c.
func (p CompanyPatch) Apply(c *Company) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Website != nil {
		c.Website = *p.Website
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	if p.Logo != nil {
		c.Logo = *p.Logo
	}
}
