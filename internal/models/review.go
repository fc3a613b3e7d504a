package models

import (
	"time"
)

type Review struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	AstrologerID   string    `json:"astrologerId"`
	ConsultationID string    `json:"consultationId"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type CreateReviewRequest struct {
	AstrologerID   string `json:"astrologerId" validate:"required"`
	ConsultationID string `json:"consultationId" validate:"required"`
	Rating         int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment        string `json:"comment" validate:"max=2000"`
}

type ServiceReview struct {
	ID           string    `json:"id"`
	OrderID      string    `json:"orderId"`
	UserID       string    `json:"userId"`
	ServiceID    string    `json:"serviceId"`
	Rating       int       `json:"rating"`
	Title        string    `json:"title,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	IsVerified   bool      `json:"isVerified"`
	IsPublic     bool      `json:"isPublic"`
	HelpfulVotes int       `json:"helpfulVotes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateServiceReviewRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	ServiceID string `json:"serviceId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title     string `json:"title" validate:"max=255"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// RatingAggregate is the denormalized rating stored on the reviewed row.
type RatingAggregate struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"reviewCount"`
}
