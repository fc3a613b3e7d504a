package models

import (
	"time"
)

const (
	AstrologerAvailable = "available"
	AstrologerBusy      = "busy"
	AstrologerOffline   = "offline"
)

type Astrologer struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	ProfileImageURL string     `json:"profileImageUrl,omitempty"`
	Specialization  StringList `json:"specialization"`
	Languages       StringList `json:"languages"`
	Experience      int        `json:"experience"`
	Rating          float64    `json:"rating"`
	ReviewCount     int        `json:"reviewCount"`
	PricePerMinute  Money      `json:"pricePerMinute"`
	IsOnline        bool       `json:"isOnline"`
	Status          string     `json:"status"`
	Bio             string     `json:"bio,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// AstrologerFilter holds the catalog query parameters. Empty fields do not filter.
type AstrologerFilter struct {
	Search         string
	Specialization string
	Language       string
}

type CreateAstrologerRequest struct {
	Name            string   `json:"name" validate:"required,max=255"`
	Email           string   `json:"email" validate:"required,email"`
	ProfileImageURL string   `json:"profileImageUrl" validate:"omitempty,url"`
	Specialization  []string `json:"specialization" validate:"required,min=1,dive,required"`
	Languages       []string `json:"languages" validate:"required,min=1,dive,required"`
	Experience      int      `json:"experience" validate:"gte=0,lte=80"`
	PricePerMinute  Money    `json:"pricePerMinute" validate:"gt=0,money_max"`
	IsOnline        bool     `json:"isOnline"`
	Status          string   `json:"status" validate:"omitempty,oneof=available busy offline"`
	Bio             string   `json:"bio" validate:"max=5000"`
}

// UpdateAstrologerRequest is a partial update. Rating and review count are
// owned by the review aggregate and cannot be set here.
type UpdateAstrologerRequest struct {
	Name            *string   `json:"name" validate:"omitempty,max=255"`
	Email           *string   `json:"email" validate:"omitempty,email"`
	ProfileImageURL *string   `json:"profileImageUrl" validate:"omitempty,url"`
	Specialization  *[]string `json:"specialization" validate:"omitempty,min=1,dive,required"`
	Languages       *[]string `json:"languages" validate:"omitempty,min=1,dive,required"`
	Experience      *int      `json:"experience" validate:"omitempty,gte=0,lte=80"`
	PricePerMinute  *Money    `json:"pricePerMinute" validate:"omitempty,gt=0,money_max"`
	IsOnline        *bool     `json:"isOnline"`
	Status          *string   `json:"status" validate:"omitempty,oneof=available busy offline"`
	Bio             *string   `json:"bio" validate:"omitempty,max=5000"`
}

// Apply copies the set fields onto a.
func (u UpdateAstrologerRequest) Apply(a *Astrologer) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Email != nil {
		a.Email = *u.Email
	}
	if u.ProfileImageURL != nil {
		a.ProfileImageURL = *u.ProfileImageURL
	}
	if u.Specialization != nil {
		a.Specialization = StringList(*u.Specialization)
	}
	if u.Languages != nil {
		a.Languages = StringList(*u.Languages)
	}
	if u.Experience != nil {
		a.Experience = *u.Experience
	}
	if u.PricePerMinute != nil {
		a.PricePerMinute = *u.PricePerMinute
	}
	if u.IsOnline != nil {
		a.IsOnline = *u.IsOnline
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Bio != nil {
		a.Bio = *u.Bio
	}
}
