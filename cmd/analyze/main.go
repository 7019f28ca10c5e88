package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strconv"

	"lifeconnect/adapters/postgres"
	"lifeconnect/domain/core"
	"lifeconnect/internal"
	"lifeconnect/internal/config"
	"lifeconnect/internal/engine"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: analyze <database_url> <user_id> [lookback_days]")
	}

	databaseURL := os.Args[1]
	userID, err := core.ParseUserID(os.Args[2])
	if err != nil {
		log.Fatalf("Invalid user id: %v", err)
	}

	lookbackDays := 0
	if len(os.Args) > 3 {
		lookbackDays, err = strconv.Atoi(os.Args[3])
		if err != nil || lookbackDays < 1 {
			log.Fatalf("Invalid lookback_days: %s", os.Args[3])
		}
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	analyzer := engine.NewAnalyzer(
		postgres.NewObservationSource(db),
		postgres.NewUserRepository(db),
		postgres.NewConnectionRepository(db),
		config.LoadEngineConfig(),
		internal.NewDefaultLogger(),
	)

	result, err := analyzer.Analyze(context.Background(), engine.AnalysisRequest{
		UserID:       userID,
		LookbackDays: lookbackDays,
	})
	if err != nil && !core.IsInsufficientDataError(err) {
		log.Fatalf("Analysis failed: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	os.Stdout.Write(append(out, '\n'))
}
