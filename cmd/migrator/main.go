package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"quizhub/internal/content"
	"quizhub/internal/quiz"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, or seed")
		dir     = flag.String("dir", "db/migrations", "Directory containing migration files")
		seedDir = flag.String("seed-dir", "quizzes", "Directory of quiz files for the seed command")
	)
	flag.Parse()

	// Setup logging
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	driver := getEnv("CONTENT_DB_DRIVER", content.DriverSQLite)
	dsn := getEnv("CONTENT_DB_DSN", "quizhub.db")

	db, err := content.OpenDB(driver, dsn)
	if err != nil {
		log.Fatal().Err(err).Str("driver", driver).Msg("failed to open database connection")
	}
	defer db.Close()

	// Verify connection
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	dialect := "postgres"
	if driver == content.DriverSQLite {
		dialect = "sqlite3"
	}
	if err := goose.SetDialect(dialect); err != nil {
		log.Fatal().Err(err).Str("dialect", dialect).Msg("failed to set goose dialect")
	}
	goose.SetBaseFS(nil)
	goose.SetTableName("goose_db_version")

	log.Info().Str("driver", driver).Str("command", *command).Msg("connected to database")

	switch *command {
	case "up":
		if err := goose.Up(db, mustDir(*dir)); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations up")
		}
		log.Info().Msg("migrations applied successfully")

	case "down":
		if err := goose.Down(db, mustDir(*dir)); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations down")
		}
		log.Info().Msg("migrations rolled back successfully")

	case "status":
		if err := goose.Status(db, mustDir(*dir)); err != nil {
			log.Fatal().Err(err).Msg("failed to get migration status")
		}

	case "seed":
		seedQuizzes(content.NewSQLSource(db), mustDir(*seedDir))

	default:
		log.Fatal().Str("command", *command).Msg("unknown command. Use: up, down, status, or seed")
	}
}

// seedQuizzes imports every quiz file from dir into the quizzes table.
// Files that fail validation are reported and skipped.
func seedQuizzes(src *content.SQLSource, dir string) {
	files, err := os.ReadDir(dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("failed to read seed directory")
	}

	ctx := context.Background()
	imported, skipped := 0, 0
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := f.Name()
		ext := filepath.Ext(name)
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Error().Err(err).Str("file", name).Msg("failed to read quiz file")
			skipped++
			continue
		}

		id := strings.TrimSuffix(name, ext)
		if err := src.Put(ctx, id, quiz.FormatForPath(name), data); err != nil {
			log.Error().Err(err).Str("file", name).Msg("quiz rejected")
			skipped++
			continue
		}
		log.Info().Str("id", id).Msg("quiz imported")
		imported++
	}
	log.Info().Int("imported", imported).Int("skipped", skipped).Msg("seed complete")
}

func mustDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("failed to resolve directory")
	}
	if _, err := os.Stat(abs); os.IsNotExist(err) {
		log.Fatal().Str("dir", abs).Msg("directory does not exist")
	}
	return abs
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
