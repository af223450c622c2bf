package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/sngm3741/feedback-forms/api/internal/auth"
	"github.com/sngm3741/feedback-forms/api/internal/config"
	"github.com/sngm3741/feedback-forms/api/internal/domain"
	mongostore "github.com/sngm3741/feedback-forms/api/internal/infrastructure/mongo"
)

type seedOptions struct {
	envFile         string
	fixturePath     string
	feedbacksByForm int
	dropCollections bool
	randomSeed      int64
}

var opts seedOptions

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed MongoDB with the default admin, sample forms and feedback",
	RunE:  runSeed,
}

func init() {
	defaultSeed := time.Now().UnixNano()
	rootCmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "env file to load before reading MONGO_* variables")
	rootCmd.Flags().StringVar(&opts.fixturePath, "fixture", "", "YAML fixture with forms (built-in sample when empty)")
	rootCmd.Flags().IntVar(&opts.feedbacksByForm, "feedbacks", 12, "random feedbacks generated per form")
	rootCmd.Flags().BoolVar(&opts.dropCollections, "drop", false, "drop existing collections before seeding")
	rootCmd.Flags().Int64Var(&opts.randomSeed, "seed", defaultSeed, "random seed for reproducible data")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", opts.envFile, err)
	}
	logger, err := config.NewLogger("development", envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	fx, err := loadFixture(opts.fixturePath)
	if err != nil {
		return err
	}

	names := mongostore.Collections{
		Forms:     envOrDefault("FORM_COLLECTION", "forms"),
		Feedbacks: envOrDefault("FEEDBACK_COLLECTION", "feedbacks"),
		Users:     envOrDefault("USER_COLLECTION", "users"),
	}
	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "feedback-forms")

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	db := client.Database(dbName)

	if opts.dropCollections {
		for _, name := range []string{names.Forms, names.Feedbacks, names.Users} {
			if err := db.Collection(name).Drop(ctx); err != nil {
				return fmt.Errorf("drop %s: %w", name, err)
			}
		}
		logger.Infow("dropped collections", "db", dbName)
	}
	if err := mongostore.EnsureIndexes(ctx, db, names); err != nil {
		return err
	}

	adminID, err := seedAdmin(ctx, logger, mongostore.NewUserRepository(db, names.Users))
	if err != nil {
		return err
	}

	now := time.Now()
	forms, err := fx.buildForms(adminID, now)
	if err != nil {
		return err
	}
	formRepo := mongostore.NewFormRepository(db, names.Forms)
	feedbackRepo := mongostore.NewFeedbackRepository(db, names.Feedbacks, names.Forms)
	rng := rand.New(rand.NewSource(opts.randomSeed))

	total := 0
	for i := range forms {
		form := &forms[i]
		if err := formRepo.Create(ctx, form); err != nil {
			return fmt.Errorf("insert form %q: %w", form.Title, err)
		}
		for _, fb := range randomFeedbacks(rng, *form, opts.feedbacksByForm, now) {
			if err := feedbackRepo.Create(ctx, &fb); err != nil {
				return fmt.Errorf("insert feedback for %q: %w", form.Title, err)
			}
			total++
		}
	}

	logger.Infow("seed complete",
		"forms", len(forms),
		"feedbacks", total,
		"mongo", mongoURI,
		"db", dbName,
		"seed", opts.randomSeed,
	)
	return nil
}

// seedAdmin returns the id of the default admin, creating the account when
// it does not exist yet.
func seedAdmin(ctx context.Context, logger *zap.SugaredLogger, users *mongostore.UserRepository) (string, error) {
	email := envOrDefault("DEFAULT_ADMIN_EMAIL", "admin@feedback.com")
	existing, err := users.FindByEmail(ctx, email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("load admin: %w", err)
	}

	user, err := auth.NewUser(
		email,
		envOrDefault("DEFAULT_ADMIN_PASSWORD", "password"),
		envOrDefault("DEFAULT_ADMIN_NAME", "Admin"),
		domain.RoleAdmin,
		time.Now(),
	)
	if err != nil {
		return "", err
	}
	if err := users.Create(ctx, user); err != nil {
		return "", fmt.Errorf("create admin: %w", err)
	}
	logger.Infow("default admin created", "email", user.Email)
	return user.ID, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
