package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	publicMiddleware := alice.New(makeResponseJSON, app.authenticate)
	authMiddleware := publicMiddleware.Append(requireAuth)
	adminMiddleware := publicMiddleware.Append(requireAdmin)
	limited := app.limiter.middleware(app.log)
	webhooks := alice.New(makeResponseJSON, app.webhookLimiter.middleware(app.log))

	mux := pat.New()

	mux.Get("/healthz", publicMiddleware.ThenFunc(app.healthHandler.Healthz))

	// Auth
	mux.Post("/api/auth/signup", publicMiddleware.Append(limited).ThenFunc(app.userHandler.SignUp))
	mux.Post("/api/auth/login", publicMiddleware.Append(limited).ThenFunc(app.userHandler.SignIn))
	mux.Post("/api/auth/refresh", publicMiddleware.Append(limited).ThenFunc(app.userHandler.Refresh))
	mux.Post("/api/auth/logout", authMiddleware.ThenFunc(app.userHandler.LogOut))
	mux.Get("/api/auth/user", authMiddleware.ThenFunc(app.userHandler.CurrentUser))
	mux.Put("/api/auth/user", authMiddleware.ThenFunc(app.userHandler.UpdateProfile))

	// Astrologers
	mux.Get("/api/astrologers", publicMiddleware.ThenFunc(app.astrologerHandler.ListAstrologers))
	mux.Post("/api/astrologers", adminMiddleware.ThenFunc(app.astrologerHandler.CreateAstrologer))
	mux.Get("/api/astrologers/:id/reviews", publicMiddleware.ThenFunc(app.reviewHandler.GetReviewsByAstrologerID))
	mux.Post("/api/astrologers/:id/image", adminMiddleware.ThenFunc(app.astrologerHandler.UploadImage))
	mux.Get("/api/astrologers/:id", publicMiddleware.ThenFunc(app.astrologerHandler.GetAstrologer))
	mux.Put("/api/astrologers/:id", adminMiddleware.ThenFunc(app.astrologerHandler.UpdateAstrologer))

	// Consultations
	mux.Get("/api/consultations", authMiddleware.ThenFunc(app.consultationHandler.ListConsultations))
	mux.Post("/api/consultations", authMiddleware.ThenFunc(app.consultationHandler.CreateConsultation))
	mux.Post("/api/consultations/:id/status", authMiddleware.ThenFunc(app.consultationHandler.UpdateStatus))

	// Reviews
	mux.Post("/api/reviews", authMiddleware.ThenFunc(app.reviewHandler.CreateReview))
	mux.Post("/api/service-reviews", authMiddleware.ThenFunc(app.reviewHandler.CreateServiceReview))

	// Content
	mux.Get("/api/blog", publicMiddleware.ThenFunc(app.contentHandler.ListPosts))
	mux.Get("/api/blog/:slug", publicMiddleware.ThenFunc(app.contentHandler.GetPost))
	mux.Get("/api/horoscope/:sign/:type", publicMiddleware.ThenFunc(app.contentHandler.GetHoroscope))
	mux.Get("/api/horoscopes/:type", publicMiddleware.ThenFunc(app.contentHandler.LatestHoroscopes))

	// Service catalog
	mux.Get("/api/service-categories", publicMiddleware.ThenFunc(app.serviceHandler.ListCategories))
	mux.Get("/api/services", publicMiddleware.ThenFunc(app.serviceHandler.ListServices))
	mux.Post("/api/services", adminMiddleware.ThenFunc(app.serviceHandler.CreateService))
	mux.Get("/api/services/:id/reviews", publicMiddleware.ThenFunc(app.reviewHandler.GetReviewsByServiceID))
	mux.Get("/api/services/:id", publicMiddleware.ThenFunc(app.serviceHandler.GetService))

	// Booking drafts
	mux.Get("/api/booking/draft", authMiddleware.ThenFunc(app.bookingHandler.GetDraft))
	mux.Put("/api/booking/draft", authMiddleware.ThenFunc(app.bookingHandler.SaveDraft))
	mux.Post("/api/booking/draft", authMiddleware.ThenFunc(app.bookingHandler.SaveDraft))
	mux.Del("/api/booking/draft", authMiddleware.ThenFunc(app.bookingHandler.DiscardDraft))
	mux.Post("/api/booking/checkout", authMiddleware.ThenFunc(app.bookingHandler.Checkout))
	mux.Get("/payment", publicMiddleware.ThenFunc(app.bookingHandler.PaymentPage))

	// Orders
	mux.Get("/api/orders", authMiddleware.ThenFunc(app.orderHandler.ListOrders))
	mux.Post("/api/orders", authMiddleware.ThenFunc(app.orderHandler.CreateOrder))
	mux.Get("/api/orders/:id/deliverables", authMiddleware.ThenFunc(app.orderHandler.Deliverables))
	mux.Post("/api/orders/:id/cancel", authMiddleware.ThenFunc(app.orderHandler.CancelOrder))
	mux.Get("/api/orders/:id", authMiddleware.ThenFunc(app.orderHandler.GetOrder))

	// Payments
	mux.Post("/api/payments/initiate", authMiddleware.ThenFunc(app.paymentHandler.Initiate))
	mux.Post("/api/payments/webhook", webhooks.ThenFunc(app.paymentHandler.Webhook))
	mux.Post("/api/payments/stripe/webhook", webhooks.ThenFunc(app.paymentHandler.StripeWebhook))
	mux.Get("/api/payments/status/:payment_id", authMiddleware.ThenFunc(app.paymentHandler.Status))
	mux.Get("/api/payments/:payment_id/qr", authMiddleware.ThenFunc(app.paymentHandler.QRCode))

	// Calculators
	calculators := publicMiddleware.Append(limited)
	mux.Post("/api/calculators/love-match", calculators.ThenFunc(app.calculatorHandler.LoveMatch))
	mux.Post("/api/calculators/numerology", calculators.ThenFunc(app.calculatorHandler.Numerology))
	mux.Post("/api/calculators/birth-chart", calculators.ThenFunc(app.calculatorHandler.BirthChart))

	// Realtime order updates
	mux.Get("/ws/orders", alice.New(app.authenticate, requireAuth).ThenFunc(app.orderHub.ServeWS))

	return standardMiddleware.Then(mux)
}
