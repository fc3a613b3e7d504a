package models

import (
	"time"
)

type BlogPost struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	Excerpt          string    `json:"excerpt,omitempty"`
	Content          string    `json:"content"`
	Category         string    `json:"category,omitempty"`
	AuthorID         string    `json:"authorId,omitempty"`
	FeaturedImageURL string    `json:"featuredImageUrl,omitempty"`
	IsPublished      bool      `json:"isPublished"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

const (
	HoroscopeDaily   = "daily"
	HoroscopeWeekly  = "weekly"
	HoroscopeMonthly = "monthly"
	HoroscopeYearly  = "yearly"
)

var ZodiacSigns = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var HoroscopeTypes = []string{HoroscopeDaily, HoroscopeWeekly, HoroscopeMonthly, HoroscopeYearly}

type Horoscope struct {
	ID         string    `json:"id"`
	ZodiacSign string    `json:"zodiacSign"`
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"createdAt"`
}
