package models

import (
	"errors"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrUnauthorized       = errors.New("models: unauthorized")
	ErrForbidden          = errors.New("models: forbidden")
)

var (
	ErrAstrologerNotFound   = errors.New("astrologer not found")
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrBlogPostNotFound     = errors.New("blog post not found")
	ErrHoroscopeNotFound    = errors.New("horoscope not found")
	ErrServiceNotFound      = errors.New("service not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrDraftNotFound        = errors.New("booking draft not found")
	ErrAlreadyReviewed      = errors.New("already reviewed")
	ErrAlreadyPaid          = errors.New("order already paid")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrDuplicateOrderNumber = errors.New("duplicate order number")
	ErrIdempotencyReplay    = errors.New("idempotency key already used")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrGateway              = errors.New("payment gateway error")
)
