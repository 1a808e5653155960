// Command seed fills the database with demo users, profiles, posts and
// subscriptions.
package main

import (
	"context"
	"flag"
	"log"

	"socialgraph/internal/config"
	"socialgraph/internal/database"
	"socialgraph/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	postsPerUser := flag.Int("posts", 3, "Posts per generated user")
	subsPerUser := flag.Int("subscriptions", 5, "Subscriptions per generated user")
	fixture := flag.String("fixture", "", "YAML fixture file to load instead of generated data")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for generated data (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	var summary seed.Summary
	if *fixture != "" {
		f, err := seed.LoadFixture(*fixture)
		if err != nil {
			log.Fatalf("Fixture load failed: %v", err)
		}
		summary, err = s.ApplyFixture(ctx, f)
		if err != nil {
			log.Fatalf("Fixture seeding failed: %v", err)
		}
	} else {
		summary, err = s.SeedSocialMesh(ctx, seed.Options{
			NumUsers:         *numUsers,
			PostsPerUser:     *postsPerUser,
			SubscriptionsPer: *subsPerUser,
			Seed:             *randSeed,
		})
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	log.Printf("Seeded %d users, %d profiles, %d posts, %d subscriptions",
		summary.Users, summary.Profiles, summary.Posts, summary.Subscriptions)
}
