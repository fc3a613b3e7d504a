// Command seed inserts today's daily horoscope for every zodiac sign that
// does not have one yet. It is safe to run repeatedly.
package main

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"jmlastro/internal/config"
	"jmlastro/internal/models"
	"jmlastro/internal/repositories"
)

//go:embed horoscopes.yaml
var horoscopesYAML []byte

type readings struct {
	Daily map[string]string `yaml:"daily"`
}

type horoscopeStore interface {
	GetForDay(ctx context.Context, sign, kind string, dayStart time.Time) (models.Horoscope, error)
	CreateHoroscope(ctx context.Context, h models.Horoscope) (models.Horoscope, error)
}

func main() {
	_ = godotenv.Load()

	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = config.DefaultPath
	}
	configPath := flag.String("config", defaultPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	db, err := sql.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		sugar.Fatalw("open database", "error", err)
	}
	defer db.Close()

	var r readings
	if err := yaml.Unmarshal(horoscopesYAML, &r); err != nil {
		sugar.Fatalw("parse embedded horoscopes", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	inserted, err := seedDaily(ctx, &repositories.HoroscopeRepository{DB: db}, r, time.Now())
	if err != nil {
		sugar.Fatalw("seed horoscopes", "error", err)
	}
	sugar.Infow("horoscopes seeded", "inserted", inserted)
}

func seedDaily(ctx context.Context, store horoscopeStore, r readings, now time.Time) (int, error) {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	inserted := 0
	for _, sign := range models.ZodiacSigns {
		content, ok := r.Daily[sign]
		if !ok {
			continue
		}
		_, err := store.GetForDay(ctx, sign, models.HoroscopeDaily, day)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrHoroscopeNotFound) {
			return inserted, err
		}
		if _, err := store.CreateHoroscope(ctx, models.Horoscope{
			ID:         uuid.NewString(),
			ZodiacSign: sign,
			Type:       models.HoroscopeDaily,
			Content:    content,
			Date:       day,
		}); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
