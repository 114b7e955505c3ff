package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"theatre/internal/actors"
	"theatre/internal/genres"
	"theatre/internal/halls"
	"theatre/internal/performances"
	"theatre/internal/plays"
	"theatre/internal/shared/config"
	"theatre/internal/shared/constants"
	"theatre/internal/shared/database"
	"theatre/internal/users"
	"theatre/pkg/cache"
	"theatre/pkg/logger"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Seeder struct {
	db *database.DB
}

func main() {
	_ = godotenv.Load()
	fmt.Println("🌱 Starting theatre database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg, logger.NewWithWriter(os.Stdout, "warn", false))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\n🎉 Seeding completed!")
}

// CleanDatabase truncates every table; CASCADE handles the foreign keys
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"tickets",
		"reservations",
		"performances",
		"play_genres",
		"play_actors",
		"plays",
		"theatre_halls",
		"actors",
		"genres",
		"users",
	}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Seeder) SeedAll(ctx context.Context) error {
	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	genreByName, err := s.SeedGenres()
	if err != nil {
		return fmt.Errorf("failed to seed genres: %w", err)
	}

	actorByName, err := s.SeedActors()
	if err != nil {
		return fmt.Errorf("failed to seed actors: %w", err)
	}

	hallList, err := s.SeedHalls()
	if err != nil {
		return fmt.Errorf("failed to seed halls: %w", err)
	}

	playList, err := s.SeedPlays(genreByName, actorByName)
	if err != nil {
		return fmt.Errorf("failed to seed plays: %w", err)
	}

	if err := s.SeedPerformances(playList, hallList); err != nil {
		return fmt.Errorf("failed to seed performances: %w", err)
	}

	return s.InvalidateCache(ctx)
}

// InvalidateCache drops cached catalog entries; a no-op without Redis
func (s *Seeder) InvalidateCache(ctx context.Context) error {
	cacheService := cache.NewService(s.db.Redis)
	if err := cacheService.Delete(ctx, constants.CACHE_KEY_GENRES_ALL, constants.CACHE_KEY_ACTORS_ALL, constants.CACHE_KEY_HALLS_ALL); err != nil {
		log.Printf("Warning: failed to clear catalog cache: %v", err)
	}
	if err := cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_PLAYS_ALL); err != nil {
		log.Printf("Warning: failed to clear cached plays: %v", err)
	}
	return nil
}

// SeedUsers creates one admin and two regular users, all with password "qwerty"
func (s *Seeder) SeedUsers() error {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	seed := []users.User{
		{FirstName: "Admin", LastName: "User", Email: "admin@theatre.local", Role: users.RoleAdmin},
		{FirstName: "Alice", LastName: "Smith", Email: "alice@theatre.local", Role: users.RoleUser},
		{FirstName: "Bob", LastName: "Jones", Email: "bob@theatre.local", Role: users.RoleUser},
	}
	for i := range seed {
		seed[i].Password = string(hashedPassword)
		if err := s.db.PostgreSQL.Create(&seed[i]).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", seed[i].Email, err)
		}
		fmt.Printf("    ✅ Created user: %s (%s)\n", seed[i].Email, seed[i].Role)
	}
	return nil
}

func (s *Seeder) SeedGenres() (map[string]genres.Genre, error) {
	fmt.Println("  🎭 Seeding genres...")

	byName := make(map[string]genres.Genre)
	for _, name := range []string{"Tragedy", "Comedy", "Drama", "Musical"} {
		g := genres.Genre{Name: name}
		if err := s.db.PostgreSQL.Create(&g).Error; err != nil {
			return nil, fmt.Errorf("failed to create genre %s: %w", name, err)
		}
		byName[name] = g
	}
	return byName, nil
}

func (s *Seeder) SeedActors() (map[string]actors.Actor, error) {
	fmt.Println("  🧑‍🎤 Seeding actors...")

	byName := make(map[string]actors.Actor)
	for _, a := range []actors.Actor{
		{FirstName: "Judi", LastName: "Dench"},
		{FirstName: "Ian", LastName: "McKellen"},
		{FirstName: "Maggie", LastName: "Smith"},
		{FirstName: "Patrick", LastName: "Stewart"},
	} {
		if err := s.db.PostgreSQL.Create(&a).Error; err != nil {
			return nil, fmt.Errorf("failed to create actor %s %s: %w", a.FirstName, a.LastName, err)
		}
		byName[a.LastName] = a
	}
	return byName, nil
}

func (s *Seeder) SeedHalls() ([]halls.TheatreHall, error) {
	fmt.Println("  🏛️  Seeding theatre halls...")

	seed := []halls.TheatreHall{
		{Name: "Blue", Rows: 20, SeatsInRow: 20},
		{Name: "Red", Rows: 10, SeatsInRow: 15},
	}
	for i := range seed {
		if err := s.db.PostgreSQL.Create(&seed[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to create hall %s: %w", seed[i].Name, err)
		}
		fmt.Printf("    ✅ Created hall: %s (%d seats)\n", seed[i].Name, seed[i].Capacity())
	}
	return seed, nil
}

func (s *Seeder) SeedPlays(genreByName map[string]genres.Genre, actorByName map[string]actors.Actor) ([]plays.Play, error) {
	fmt.Println("  📜 Seeding plays...")

	seed := []plays.Play{
		{
			Title:       "Hamlet",
			Description: "The Prince of Denmark seeks revenge for his father's murder.",
			Genres:      []genres.Genre{genreByName["Tragedy"], genreByName["Drama"]},
			Actors:      []actors.Actor{actorByName["McKellen"], actorByName["Dench"]},
		},
		{
			Title:       "Macbeth",
			Description: "A Scottish general's ambition leads him to murder.",
			Genres:      []genres.Genre{genreByName["Tragedy"]},
			Actors:      []actors.Actor{actorByName["Stewart"]},
		},
		{
			Title:       "The Importance of Being Earnest",
			Description: "A trivial comedy for serious people.",
			Genres:      []genres.Genre{genreByName["Comedy"]},
			Actors:      []actors.Actor{actorByName["Smith"], actorByName["Dench"]},
		},
	}
	for i := range seed {
		if err := s.db.PostgreSQL.Create(&seed[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to create play %s: %w", seed[i].Title, err)
		}
		fmt.Printf("    ✅ Created play: %s\n", seed[i].Title)
	}
	return seed, nil
}

// SeedPerformances schedules every play nightly at 19:30 UTC for the next week,
// alternating halls
func (s *Seeder) SeedPerformances(playList []plays.Play, hallList []halls.TheatreHall) error {
	fmt.Println("  🎟️  Seeding performances...")

	today := time.Now().UTC().Truncate(24 * time.Hour)
	count := 0
	for day := 1; day <= 7; day++ {
		for i, play := range playList {
			p := performances.Performance{
				PlayID:        play.ID,
				TheatreHallID: hallList[(day+i)%len(hallList)].ID,
				ShowTime:      today.AddDate(0, 0, day).Add(19*time.Hour + 30*time.Minute + time.Duration(i)*time.Hour),
			}
			if err := s.db.PostgreSQL.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to create performance of %s: %w", play.Title, err)
			}
			count++
		}
	}
	fmt.Printf("    ✅ Created %d performances\n", count)
	return nil
}
