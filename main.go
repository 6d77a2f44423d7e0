package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/automaxprocs/maxprocs"
	"gorm.io/gorm"

	api "github.com/rpupo63/portfolio-api/api"
	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/database"
	"github.com/rpupo63/portfolio-api/models"
	"github.com/rpupo63/portfolio-api/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	env := config.New()
	cfg, err := config.Load(env)
	setupLogger(cfg)
	// secrets may still arrive from SSM, which revalidates after the overlay
	if err != nil && cfg.SSMPrefix == "" {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug().Msgf(format, args...)
	})); err != nil {
		log.Warn().Err(err).Msg("failed to set GOMAXPROCS")
	}

	if cfg.SSMPrefix != "" {
		cfg = overlaySSM(cfg, env)
	}

	// ISSUE_ADMIN_TOKEN=<subject> prints a signed admin token and exits
	if subject := config.GetString(env, "ISSUE_ADMIN_TOKEN", ""); subject != "" {
		ttl := time.Duration(config.GetInt(env, "ADMIN_TOKEN_TTL_HOURS", 24)) * time.Hour
		token, err := api.IssueAdminToken(cfg.AdminJWTSecret, subject, ttl)
		if err != nil {
			log.Fatal().Err(err).Msg("error issuing admin token")
		}
		fmt.Println(token)
		return
	}

	log.Info().Str("environment", cfg.Environment).Str("dbType", cfg.Database.Type).Msg("Initializing app...")

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("error running migrations")
	}

	if done := runMode(env, db); done {
		return
	}

	currentDB := database.New(db)

	mailer, err := services.NewMailer(cfg.Email)
	if err != nil {
		log.Fatal().Err(err).Msg("error configuring mailer")
	}
	var sms services.SMSSender
	if twilio := services.NewTwilioSMS(cfg.SMS); twilio != nil {
		sms = twilio
	}
	notifier := services.NewContactNotifier(mailer, sms, cfg.Owner, cfg.Email.ContactEmail)

	contactService := services.NewContactService(currentDB, notifier)
	server, err := api.NewServer(cfg, api.Services{
		Projects:       services.NewProjectService(currentDB),
		Certifications: services.NewCertificationService(currentDB),
		Contacts:       contactService,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing server")
	}

	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
	if err := contactService.WaitTimeout(30 * time.Second); err != nil {
		log.Error().Err(err).Msg("pending notifications dropped")
	}
}

// runMode handles the one-shot modes. It reports true when the process should exit.
func runMode(env map[string]string, db *gorm.DB) bool {
	switch {
	case config.GetBool(env, "MIGRATE_ONLY", false):
		log.Info().Msg("migrations applied")
		return true

	case config.GetBool(env, "MIGRATE_ROLLBACK", false):
		if err := database.RollbackLast(db); err != nil {
			log.Fatal().Err(err).Msg("error rolling back migration")
		}
		log.Info().Msg("last migration rolled back")
		return true

	case config.GetBool(env, "SEED_DATABASE", false):
		data, err := database.LoadSeed()
		if err != nil {
			log.Fatal().Err(err).Msg("error loading seed data")
		}
		if err := database.Seed(context.Background(), db, data); err != nil {
			log.Fatal().Err(err).Msg("error seeding database")
		}
		return true

	case config.GetBool(env, "GENERATE_MODELS", false):
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("error generating models")
		}
		return true

	case config.GetBool(env, "GENERATE_COLUMN_REPORT", false):
		if _, err := models.GenerateColumnReport(db); err != nil {
			log.Fatal().Err(err).Msg("error generating column report")
		}
		return true
	}
	return false
}

func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}

// overlaySSM replaces env values with Parameter Store entries and reloads the config
func overlaySSM(cfg config.Config, env map[string]string) config.Config {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := config.NewSSMClient(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating SSM client")
	}
	n, err := config.OverlaySSM(ctx, client, cfg.SSMPrefix, env)
	if err != nil {
		log.Fatal().Err(err).Str("prefix", cfg.SSMPrefix).Msg("error reading SSM parameters")
	}

	reloaded, err := config.Load(env)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration after SSM overlay")
	}
	log.Info().Int("parameters", n).Str("prefix", cfg.SSMPrefix).Msg("applied SSM parameters")
	return reloaded
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
