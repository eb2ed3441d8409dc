package main

import (
	"context"
	"log"
	"os"

	"github.com/casalist/backend/internal/adapters/database"
	"github.com/casalist/backend/internal/application/services"
	"github.com/casalist/backend/internal/infrastructure/clients/postgres"
	"github.com/casalist/backend/internal/security"
	"github.com/casalist/backend/pkg/config"
)

// Seeds a development database with an admin, a couple of regular accounts,
// the base amenity catalog and a few listings with reviews. Run with
// RESET_DB=true to start from empty tables.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				listing_amenities,
				reviews,
				listings,
				amenities,
				accounts
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to truncate tables: %v", err)
		}
	}

	accountRepo := database.NewAccountAdapter(pgClient)
	listingRepo := database.NewListingAdapter(pgClient)
	amenityRepo := database.NewAmenityAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)

	accountService := services.NewAccountService(accountRepo, security.NewBcryptHasher())
	amenityService := services.NewAmenityService(amenityRepo)
	listingService := services.NewListingService(listingRepo, accountRepo, amenityRepo)
	reviewService := services.NewReviewService(reviewRepo, accountRepo, listingRepo)

	admin, err := accountService.Create(ctx, services.CreateAccountInput{
		FirstName: "Ada",
		LastName:  "Admin",
		Email:     "admin@casalist.dev",
		Password:  envOr("SEED_ADMIN_PASSWORD", "changeme"),
		IsAdmin:   true,
	})
	if err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	host, err := accountService.Create(ctx, services.CreateAccountInput{
		FirstName: "Hugo",
		LastName:  "Host",
		Email:     "hugo@casalist.dev",
		Password:  "seed-only",
	})
	if err != nil {
		log.Fatalf("Failed to seed host account: %v", err)
	}

	guest, err := accountService.Create(ctx, services.CreateAccountInput{
		FirstName: "Greta",
		LastName:  "Guest",
		Email:     "greta@casalist.dev",
		Password:  "seed-only",
	})
	if err != nil {
		log.Fatalf("Failed to seed guest account: %v", err)
	}

	amenityIDs := make([]string, 0, 4)
	for _, name := range []string{"Wi-Fi", "Air Conditioning", "Pool", "Parking"} {
		amenity, err := amenityService.Create(ctx, services.CreateAmenityInput{Name: name})
		if err != nil {
			log.Fatalf("Failed to seed amenity %q: %v", name, err)
		}
		amenityIDs = append(amenityIDs, amenity.ID)
	}

	lat, lon := 45.4642, 9.19
	listing, err := listingService.Create(ctx, services.CreateListingInput{
		Name:        "Canal View Loft",
		Description: "Bright loft near the water",
		City:        "Milan",
		Price:       120,
		Latitude:    &lat,
		Longitude:   &lon,
		OwnerID:     host.ID,
		AmenityIDs:  amenityIDs[:2],
	})
	if err != nil {
		log.Fatalf("Failed to seed listing: %v", err)
	}

	if _, err := listingService.Create(ctx, services.CreateListingInput{
		Name:        "Hillside Cottage",
		Description: "Quiet weekend retreat",
		City:        "Florence",
		Price:       95,
		OwnerID:     host.ID,
		AmenityIDs:  amenityIDs[2:],
	}); err != nil {
		log.Fatalf("Failed to seed second listing: %v", err)
	}

	if _, err := reviewService.Create(ctx, services.CreateReviewInput{
		Text:      "Great stay, would come back",
		Rating:    5,
		AuthorID:  guest.ID,
		ListingID: listing.ID,
	}); err != nil {
		log.Fatalf("Failed to seed review: %v", err)
	}

	log.Printf("Seed complete: admin=%s host=%s guest=%s", admin.Email, host.Email, guest.Email)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
