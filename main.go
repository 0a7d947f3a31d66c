package main

import (
	"fmt"
	"os"

	account "farmify/internal/accountService"
	"farmify/internal/auth"
	bidding "farmify/internal/biddingService"
	checkout "farmify/internal/checkoutService"
	"farmify/internal/config"
	"farmify/internal/database"
	"farmify/internal/doordash"
	listing "farmify/internal/listingService"
	"farmify/internal/paypal"
	"farmify/internal/repository"
	"farmify/internal/server"
	stats "farmify/internal/statsService"
	"farmify/utils"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		utils.Fatal("database connection failed", map[string]any{"error": err.Error()})
	}
	if err := database.Migrate(db); err != nil {
		utils.Fatal("database migration failed", map[string]any{"error": err.Error()})
	}

	repo := repository.NewGormRepo(db)
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.ExpiresHours)

	paypalClient := paypal.NewClient(paypal.Config{
		BaseURL:      cfg.PayPal.BaseURL,
		ClientID:     cfg.PayPal.ClientID,
		ClientSecret: cfg.PayPal.ClientSecret,
	})
	doordashClient := doordash.NewClient(doordash.Config{
		BaseURL:       cfg.DoorDash.BaseURL,
		DeveloperID:   cfg.DoorDash.DeveloperID,
		KeyID:         cfg.DoorDash.KeyID,
		SigningSecret: cfg.DoorDash.SigningSecret,
	})

	router := server.SetupRouter(server.Services{
		Listings: listing.NewListingService(repo, repo),
		Bids:     bidding.NewBiddingService(repo, repo, repo),
		Accounts: account.NewAccountService(repo, repo, issuer),
		Stats:    stats.NewStatsService(repo, repo, repo),
		Checkout: checkout.NewCheckoutService(repo, paypalClient, doordashClient),
		Issuer:   issuer,
	})

	addr := ":" + cfg.Port
	fmt.Printf("Starting Farmify server on %s...\n", addr)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
