package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("user"))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("admin"))

	mux := pat.New()

	// Users
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Get("/user", adminAuthMiddleware.ThenFunc(app.userHandler.GetUsers))
	mux.Get("/user/:id", authMiddleware.ThenFunc(app.userHandler.GetUserByID))
	mux.Put("/user/:id", authMiddleware.ThenFunc(app.userHandler.UpdateUser))
	mux.Del("/user/:id", adminAuthMiddleware.ThenFunc(app.userHandler.DeleteUser))

	// Campaigns
	mux.Post("/campaign", adminAuthMiddleware.ThenFunc(app.campaignHandler.CreateCampaign))
	mux.Get("/campaign", standardMiddleware.ThenFunc(app.campaignHandler.GetCampaigns))
	mux.Get("/campaign/:id", standardMiddleware.ThenFunc(app.campaignHandler.GetCampaignByID))
	mux.Put("/campaign/:id", adminAuthMiddleware.ThenFunc(app.campaignHandler.UpdateCampaign))
	mux.Del("/campaign/:id", adminAuthMiddleware.ThenFunc(app.campaignHandler.DeleteCampaign))

	// Donations
	mux.Post("/donation/intent", authMiddleware.ThenFunc(app.donationHandler.CreateIntent))
	mux.Get("/donation/campaign/:campaign_id", standardMiddleware.ThenFunc(app.donationHandler.GetDonationsByCampaign))
	mux.Get("/donation/donor/:donor_id", authMiddleware.ThenFunc(app.donationHandler.GetDonationsByDonor))
	mux.Get("/donation", adminAuthMiddleware.ThenFunc(app.donationHandler.GetDonations))
	mux.Get("/donation/:id", authMiddleware.ThenFunc(app.donationHandler.GetDonationByID))
	mux.Del("/donation/:id", adminAuthMiddleware.ThenFunc(app.donationHandler.DeleteDonation))

	// Payment provider webhook; authenticated by signature, not JWT.
	mux.Post("/api/webhooks/stripe", standardMiddleware.ThenFunc(app.webhookHandler.HandleStripeEvent))

	// Blog
	mux.Post("/blog", adminAuthMiddleware.ThenFunc(app.blogHandler.CreatePost))
	mux.Get("/blog", standardMiddleware.ThenFunc(app.blogHandler.GetPosts))
	mux.Get("/blog/:slug", standardMiddleware.ThenFunc(app.blogHandler.GetPostBySlug))
	mux.Put("/blog/:id", adminAuthMiddleware.ThenFunc(app.blogHandler.UpdatePost))
	mux.Del("/blog/:id", adminAuthMiddleware.ThenFunc(app.blogHandler.DeletePost))

	// Contact
	mux.Post("/contact", standardMiddleware.ThenFunc(app.contactHandler.CreateSubmission))
	mux.Get("/contact", adminAuthMiddleware.ThenFunc(app.contactHandler.GetSubmissions))
	mux.Del("/contact/:id", adminAuthMiddleware.ThenFunc(app.contactHandler.DeleteSubmission))

	// Live donation feed
	mux.Get("/ws/donations", http.HandlerFunc(app.DonationFeedHandler))

	return standardMiddleware.Then(mux)
}
