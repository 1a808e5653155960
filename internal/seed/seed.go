// Package seed fills the database with demo data, either generated or read
// from a YAML fixture file.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"socialgraph/internal/database"
	"socialgraph/internal/middleware"
	"socialgraph/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

const batchSize = 200

// Options configures generated data.
type Options struct {
	NumUsers         int
	PostsPerUser     int
	SubscriptionsPer int
	// Seed makes generation deterministic when non-zero.
	Seed int64
}

// Fixture is the YAML fixture format.
//
//	users:
//	  - name: alice
//	    balance: 120.5
//	    memberType: BUSINESS
//	    posts:
//	      - title: Hello
//	        content: First post
//	    subscribesTo: [bob]
type Fixture struct {
	Users []FixtureUser `yaml:"users"`
}

// FixtureUser is one user with everything it owns.
type FixtureUser struct {
	Name         string        `yaml:"name"`
	Balance      float64       `yaml:"balance"`
	MemberType   string        `yaml:"memberType"`
	IsMale       bool          `yaml:"isMale"`
	YearOfBirth  int           `yaml:"yearOfBirth"`
	Posts        []FixturePost `yaml:"posts"`
	SubscribesTo []string      `yaml:"subscribesTo"`
}

// FixturePost is a post in a fixture file.
type FixturePost struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// Seeder writes demo data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	// #nosec G304: path comes from a CLI flag
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(raw)
}

// ParseFixture decodes and validates fixture YAML.
func ParseFixture(raw []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	names := make(map[string]bool, len(f.Users))
	for _, u := range f.Users {
		if u.Name == "" {
			return nil, fmt.Errorf("fixture user without a name")
		}
		if names[u.Name] {
			return nil, fmt.Errorf("duplicate fixture user %q", u.Name)
		}
		names[u.Name] = true
		if u.MemberType != "" {
			if _, err := models.ParseMemberTypeID(u.MemberType); err != nil {
				return nil, fmt.Errorf("fixture user %q: %w", u.Name, err)
			}
		}
	}
	for _, u := range f.Users {
		for _, author := range u.SubscribesTo {
			if !names[author] {
				return nil, fmt.Errorf("fixture user %q subscribes to unknown user %q", u.Name, author)
			}
		}
	}
	return &f, nil
}

// ClearAll removes every user and everything users own. Member types stay.
func (s *Seeder) ClearAll(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	for _, model := range []interface{}{&models.Subscription{}, &models.Post{}, &models.Profile{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	middleware.Logger.InfoContext(ctx, "Cleared seeded data")
	return nil
}

// Summary counts the rows a seeding run wrote.
type Summary struct {
	Users         int
	Profiles      int
	Posts         int
	Subscriptions int
}

// SeedSocialMesh generates users with profiles and posts, each subscribing
// to a handful of the others.
func (s *Seeder) SeedSocialMesh(ctx context.Context, opts Options) (Summary, error) {
	faker := gofakeit.New(opts.Seed)

	users := make([]*models.User, opts.NumUsers)
	for i := range users {
		users[i] = &models.User{
			Name:    faker.Name(),
			Balance: float64(int(faker.Float64Range(0, 5000)*100)) / 100,
		}
	}

	var (
		profiles []*models.Profile
		posts    []*models.Post
		subs     []*models.Subscription
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(users) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(users, batchSize).Error; err != nil {
			return fmt.Errorf("create users: %w", err)
		}

		for i, u := range users {
			memberType := models.MemberTypeBasic
			if faker.Number(0, 3) == 0 {
				memberType = models.MemberTypeBusiness
			}
			profiles = append(profiles, &models.Profile{
				IsMale:       faker.Bool(),
				YearOfBirth:  faker.Number(1950, 2008),
				UserID:       u.ID,
				MemberTypeID: memberType,
			})
			for j := 0; j < opts.PostsPerUser; j++ {
				posts = append(posts, &models.Post{
					Title:    faker.Sentence(5),
					Content:  faker.Paragraph(1, 3, 8, "\n"),
					AuthorID: u.ID,
				})
			}
			// Follow the next users in a ring so the graph has no self edges
			// or duplicates.
			for k := 1; k <= opts.SubscriptionsPer && k < len(users); k++ {
				subs = append(subs, &models.Subscription{
					SubscriberID: u.ID,
					AuthorID:     users[(i+k)%len(users)].ID,
				})
			}
		}

		if err := tx.CreateInBatches(profiles, batchSize).Error; err != nil {
			return fmt.Errorf("create profiles: %w", err)
		}
		if len(posts) > 0 {
			if err := tx.CreateInBatches(posts, batchSize).Error; err != nil {
				return fmt.Errorf("create posts: %w", err)
			}
		}
		if len(subs) > 0 {
			if err := tx.CreateInBatches(subs, batchSize).Error; err != nil {
				return fmt.Errorf("create subscriptions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Users: len(users), Profiles: len(profiles), Posts: len(posts), Subscriptions: len(subs)}
	logSummary(ctx, "Seeded social mesh", summary)
	return summary, nil
}

// ApplyFixture writes the users of f and everything they own.
func (s *Seeder) ApplyFixture(ctx context.Context, f *Fixture) (Summary, error) {
	var summary Summary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		byName := make(map[string]*models.User, len(f.Users))
		for _, fu := range f.Users {
			u := &models.User{Name: fu.Name, Balance: fu.Balance}
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("create user %q: %w", fu.Name, err)
			}
			byName[fu.Name] = u
			summary.Users++

			if fu.MemberType != "" {
				year := fu.YearOfBirth
				if year == 0 {
					year = 1990
				}
				p := &models.Profile{
					IsMale:       fu.IsMale,
					YearOfBirth:  year,
					UserID:       u.ID,
					MemberTypeID: models.MemberTypeID(fu.MemberType),
				}
				if err := tx.Create(p).Error; err != nil {
					return fmt.Errorf("create profile for %q: %w", fu.Name, err)
				}
				summary.Profiles++
			}

			for _, fp := range fu.Posts {
				if err := tx.Create(&models.Post{Title: fp.Title, Content: fp.Content, AuthorID: u.ID}).Error; err != nil {
					return fmt.Errorf("create post for %q: %w", fu.Name, err)
				}
				summary.Posts++
			}
		}

		for _, fu := range f.Users {
			for _, author := range fu.SubscribesTo {
				sub := &models.Subscription{SubscriberID: byName[fu.Name].ID, AuthorID: byName[author].ID}
				if err := tx.Create(sub).Error; err != nil {
					return fmt.Errorf("subscribe %q to %q: %w", fu.Name, author, err)
				}
				summary.Subscriptions++
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	logSummary(ctx, "Applied fixture", summary)
	return summary, nil
}

// EnsureMemberTypes seeds the member type catalogue.
func (s *Seeder) EnsureMemberTypes(ctx context.Context) error {
	return database.SeedMemberTypes(ctx, s.db)
}

func logSummary(ctx context.Context, msg string, s Summary) {
	middleware.Logger.InfoContext(ctx, msg,
		slog.Int("users", s.Users),
		slog.Int("profiles", s.Profiles),
		slog.Int("posts", s.Posts),
		slog.Int("subscriptions", s.Subscriptions),
	)
}
