package models

import (
	"time"
)

type ServiceCategory struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	DisplayOrder int       `json:"displayOrder"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Service struct {
	ID               string     `json:"id"`
	CategoryID       string     `json:"categoryId"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	ShortDescription string     `json:"shortDescription,omitempty"`
	Price            Money      `json:"price"`
	Currency         string     `json:"currency"`
	Duration         *int       `json:"duration,omitempty"`
	DeliveryTime     string     `json:"deliveryTime,omitempty"`
	Features         StringList `json:"features"`
	Requirements     StringList `json:"requirements"`
	ServiceType      string     `json:"serviceType"`
	IsDigital        bool       `json:"isDigital"`
	MaxRevisions     int        `json:"maxRevisions"`
	ThumbnailURL     string     `json:"thumbnailUrl,omitempty"`
	GalleryURLs      StringList `json:"galleryUrls"`
	IsActive         bool       `json:"isActive"`
	IsFeatured       bool       `json:"isFeatured"`
	Tags             StringList `json:"tags"`
	Rating           float64    `json:"rating"`
	ReviewCount      int        `json:"reviewCount"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type ServiceFilter struct {
	CategoryID string
	Search     string
	Featured   bool
}

type CreateServiceRequest struct {
	CategoryID       string   `json:"categoryId" validate:"required"`
	Name             string   `json:"name" validate:"required,max=255"`
	Description      string   `json:"description" validate:"required"`
	ShortDescription string   `json:"shortDescription" validate:"max=500"`
	Price            Money    `json:"price" validate:"gt=0,money_max"`
	Currency         string   `json:"currency" validate:"omitempty,len=3"`
	Duration         *int     `json:"duration" validate:"omitempty,gt=0"`
	DeliveryTime     string   `json:"deliveryTime" validate:"max=100"`
	Features         []string `json:"features" validate:"dive,required"`
	Requirements     []string `json:"requirements" validate:"dive,required"`
	ServiceType      string   `json:"serviceType" validate:"required,oneof=consultation report course remedy reading"`
	IsDigital        *bool    `json:"isDigital"`
	MaxRevisions     int      `json:"maxRevisions" validate:"gte=0"`
	ThumbnailURL     string   `json:"thumbnailUrl" validate:"omitempty,url"`
	GalleryURLs      []string `json:"galleryUrls" validate:"dive,url"`
	IsFeatured       bool     `json:"isFeatured"`
	Tags             []string `json:"tags" validate:"dive,required"`
}

type Deliverable struct {
	ID            string     `json:"id"`
	OrderID       string     `json:"orderId"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Content       string     `json:"content,omitempty"`
	FileURLs      StringList `json:"fileUrls"`
	AccessURL     string     `json:"accessUrl,omitempty"`
	ValidUntil    *time.Time `json:"validUntil,omitempty"`
	DownloadCount int        `json:"downloadCount"`
	IsDelivered   bool       `json:"isDelivered"`
	DeliveredAt   *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
