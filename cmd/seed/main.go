package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/mollie-sms/internal/config"
	"github.com/oggyb/mollie-sms/internal/db/gormdb"
	domain "github.com/oggyb/mollie-sms/internal/domain/message"
	"github.com/oggyb/mollie-sms/internal/logger"
	mesgRepo "github.com/oggyb/mollie-sms/internal/repository/gorm/message"
)

const (
	seedCount = 50
	// Every scheduledEvery-th message is held by the gateway until later.
	scheduledEvery = 5
)

func main() {
	ctx := context.Background()

	// Load application configuration (DB, Redis, etc.) from env/.env.
	cfg := config.New()

	base, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid LOG_LEVEL %q: %v\n", cfg.App.LogLevel, err)
		os.Exit(1)
	}
	log := base.With().Str("component", "seed").Logger()

	// Open a Postgres connection through our GORM adapter.
	gormAdapter, err := gormdb.New(cfg.PostgresDSN(), cfg.App.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer gormAdapter.Close()

	log.Info().Str("db", cfg.DB.Name).Msg("connected to database")

	// 1) AutoMigrate: make sure the messages table exists.
	// We go through the adapter to access the underlying *gorm.DB.
	rawDB := gormAdapter.Conn().(*gorm.DB)

	if err := rawDB.AutoMigrate(&mesgRepo.MessageModel{}); err != nil {
		log.Fatal().Err(err).Msg("AutoMigrate failed")
	}
	log.Info().Msg("messages table is up to date")

	// 2) Insert seedCount random PENDING messages, a few of them scheduled.
	repo := mesgRepo.NewRepository(gormAdapter)
	run := time.Now().Unix()

	for i := 0; i < seedCount; i++ {
		msg, err := randomMessage(run, i+1)
		if err != nil {
			log.Fatal().Err(err).Int("n", i+1).Msg("invalid seed message")
		}

		if err := repo.Save(ctx, msg); err != nil {
			log.Fatal().Err(err).Int("n", i+1).Msg("failed to save message")
		}

		log.Debug().
			Str("id", msg.ID.String()).
			Strs("to", msg.To).
			Str("reference", msg.Reference).
			Msg("created message")
	}

	log.Info().Int("count", seedCount).Msg("seeding done")
}

// randomMessage builds the n-th seed message. References carry the run so
// seeding twice does not collide with live scheduled messages.
func randomMessage(run int64, n int) (*domain.Message, error) {
	to := []string{randomPhone()}
	if n%3 == 0 {
		to = append(to, randomPhone())
	}
	content := randomContent(n)

	if n%scheduledEvery != 0 {
		return domain.NewMessage(to, content)
	}

	deliverAt := time.Now().Add(time.Duration(rand.Intn(72)+1) * time.Hour)
	return domain.NewScheduledMessage(to, content, deliverAt, fmt.Sprintf("seed-%d-%03d", run, n))
}

// randomPhone generates a fake Dutch mobile number.
// Example output: 0612345678
func randomPhone() string {
	n := rand.Intn(90000000) + 10000000 // 8 digits
	return fmt.Sprintf("06%d", n)
}

// randomContent generates a simple SMS body for seeding.
func randomContent(i int) string {
	now := time.Now().Format("15:04:05")
	return fmt.Sprintf("Seed message #%d queued at %s", i, now)
}
