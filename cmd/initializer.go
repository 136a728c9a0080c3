package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"shapagatBack/internal/config"
	"shapagatBack/internal/handlers"
	"shapagatBack/internal/repositories"
	"shapagatBack/internal/services"
	"shapagatBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger

	signingKey string

	userHandler     *handlers.UserHandler
	userRepo        *repositories.UserRepository
	campaignHandler *handlers.CampaignHandler
	donationHandler *handlers.DonationHandler
	webhookHandler  *handlers.WebhookHandler
	blogHandler     *handlers.BlogHandler
	contactHandler  *handlers.ContactHandler

	campaignService *services.CampaignService

	feed *DonationFeed
	db   *sql.DB
}

func initializeApp(db *sql.DB, rdb *redis.Client, cfg config.Config, errorLog, infoLog *log.Logger) (*application, error) {
	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	campaignRepo := repositories.CampaignRepository{DB: db}
	donationRepo := repositories.DonationRepository{DB: db}
	blogRepo := repositories.BlogRepository{DB: db}
	contactRepo := repositories.ContactRepository{DB: db}

	tokenManager, err := utils.NewManager(cfg.Server.SigningKey)
	if err != nil {
		return nil, err
	}

	stripeService, err := services.NewStripeService(services.StripeConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Currency:      cfg.Stripe.Currency,
		Logger:        slog.New(slog.NewTextHandler(os.Stdout, nil)),
	})
	if err != nil {
		return nil, err
	}

	feed := NewDonationFeed(errorLog)

	// Services
	userService := &services.UserService{UserRepo: &userRepo, TokenManager: tokenManager, SigningKey: cfg.Server.SigningKey}
	campaignService := &services.CampaignService{CampaignRepo: &campaignRepo, Cache: rdb}
	donationService := &services.DonationService{
		Donations: &donationRepo,
		Campaigns: &campaignRepo,
		Donors:    &userRepo,
		Payments:  stripeService,
		Feed:      feed.Publish,
		InfoLog:   infoLog,
		ErrorLog:  errorLog,
	}
	blogService := &services.BlogService{BlogRepo: &blogRepo}
	contactService := &services.ContactService{ContactRepo: &contactRepo}

	// Handlers
	userHandler := &handlers.UserHandler{Service: userService}
	campaignHandler := &handlers.CampaignHandler{Service: campaignService}
	donationHandler := &handlers.DonationHandler{Service: donationService}
	webhookHandler := &handlers.WebhookHandler{Payments: stripeService, Service: donationService, ErrorLog: errorLog}
	blogHandler := &handlers.BlogHandler{Service: blogService}
	contactHandler := &handlers.ContactHandler{Service: contactService}

	return &application{
		errorLog:        errorLog,
		infoLog:         infoLog,
		signingKey:      cfg.Server.SigningKey,
		userHandler:     userHandler,
		userRepo:        &userRepo,
		campaignHandler: campaignHandler,
		donationHandler: donationHandler,
		webhookHandler:  webhookHandler,
		blogHandler:     blogHandler,
		contactHandler:  contactHandler,
		campaignService: campaignService,
		feed:            feed,
		db:              db,
	}, nil
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
