package models

import (
	"time"
)

const (
	ConsultationChat  = "chat"
	ConsultationCall  = "call"
	ConsultationVideo = "video"
)

const (
	ConsultationPending   = "pending"
	ConsultationActive    = "active"
	ConsultationCompleted = "completed"
	ConsultationCancelled = "cancelled"
)

// ConsultationDurations lists the bookable session lengths in minutes.
var ConsultationDurations = []int{15, 30, 45, 60}

type Consultation struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	AstrologerID string     `json:"astrologerId"`
	Type         string     `json:"type"`
	Duration     int        `json:"duration"`
	Price        Money      `json:"price"`
	Status       string     `json:"status"`
	Topic        string     `json:"topic,omitempty"`
	ScheduledAt  *time.Time `json:"scheduledAt,omitempty"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	EndedAt      *time.Time `json:"endedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type CreateConsultationRequest struct {
	AstrologerID string     `json:"astrologerId" validate:"required"`
	Type         string     `json:"type" validate:"required,oneof=chat call video"`
	Duration     int        `json:"duration" validate:"required,oneof=15 30 45 60"`
	Price        *Money     `json:"price" validate:"omitempty,gt=0,money_max"`
	Topic        string     `json:"topic" validate:"max=500"`
	ScheduledAt  *time.Time `json:"scheduledAt"`
}

type ConsultationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active completed cancelled"`
}

// ConsultationPrice is duration × pricePerMinute.
func ConsultationPrice(pricePerMinute Money, duration int) Money {
	return pricePerMinute.Mul(duration)
}
