package main

import (
	"log"
	"log/slog"
	"time"

	"gradpolls/internal/config"
	"gradpolls/internal/database"
	"gradpolls/internal/models"
	"gradpolls/internal/repositories/postgres"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting database seeding...")

	db, err := database.NewPostgresConnection(
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	slog.Info("Database connection established")

	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	userRepo := postgres.NewUserRepository(db)
	pollRepo := postgres.NewPollRepository(db)
	communityRepo := postgres.NewCommunityRepository(db)

	// Seed test users
	slog.Info("Creating initial users...")

	testUsers := []struct {
		username string
		email    string
		private  bool
	}{
		{"alice", "alice@gradpolls.dev", false},
		{"bob", "bob@gradpolls.dev", true},
		{"charlie", "charlie@gradpolls.dev", false},
	}

	var users []*models.User
	for _, userData := range testUsers {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
		user := &models.User{
			Username:  userData.username,
			Email:     userData.email,
			Password:  string(hashedPassword),
			IsPrivate: userData.private,
		}

		if err := userRepo.Create(user); err != nil {
			slog.Warn("User might already exist", "username", userData.username, "error", err)
			continue
		}
		slog.Info("Created user", "username", userData.username, "id", user.ID)
		users = append(users, user)
	}

	if len(users) > 0 {
		creator := users[0]

		// Seed a sample poll
		slog.Info("Creating sample poll...")
		endDate := time.Now().Add(models.PollDefaultDuration)
		poll := &models.Poll{
			Title:    "Best time for the weekly study group?",
			PollType: models.PollTypeGeneral,
			EndDate:  &endDate,
			UserID:   &creator.ID,
		}
		options := []string{"Monday evening", "Wednesday evening", "Saturday morning", models.ViewingOnlyOption}
		if err := pollRepo.CreateWithOptions(poll, options); err != nil {
			slog.Warn("Failed to seed poll", "error", err)
		} else {
			slog.Info("Created poll", "id", poll.ID)
		}

		// Seed a sample community
		slog.Info("Creating sample community...")
		community := &models.Community{
			Name:        "MIT - Computer Science",
			University:  "MIT",
			Program:     "Computer Science",
			Description: "Admissions, coursework and campus life.",
			CreatedByID: creator.ID,
		}
		if err := communityRepo.CreateWithCreator(community); err != nil {
			slog.Warn("Community might already exist", "error", err)
		} else {
			slog.Info("Created community", "id", community.ID)
		}
	}

	slog.Info("Database seeding completed!")
}
