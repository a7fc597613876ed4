package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"

	adapthttp "physiosheet/internal/adapter/http"
	"physiosheet/internal/adapter/localstore"
	"physiosheet/internal/adapter/postgres"
	"physiosheet/internal/app"
	"physiosheet/internal/domain"
	"physiosheet/internal/summarize"

	"github.com/joho/godotenv"
)

func main() {
	loadDotenv()

	addr := env("ADDR", ":8080")
	webDir := env("WEB_DIR", "web")
	ctx := context.Background()

	var (
		accounts domain.AccountRepository
		sessions domain.SessionRepository
		logins   domain.LoginSessionRepository
	)

	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		db, err := postgres.Open(connStr)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = db.Close() }()
		accounts, sessions, logins = db, db, postgres.NewLoginSessionRepo(db)
	} else {
		storePath := env("STORE_PATH", "physiosheet.json")
		store, err := localstore.Open(storePath)
		if err != nil {
			log.Fatalf("store open: %v", err)
		}
		accounts, sessions, logins = store, store, store.LoginSessions()
	}

	authSvc := app.NewAuthService(accounts, logins)
	if err := authSvc.EnsureSeedAccounts(ctx); err != nil {
		log.Fatalf("seed accounts: %v", err)
	}
	timesheetSvc := app.NewTimesheetService(accounts, sessions)
	summarySvc := app.NewSummaryService(sessions, summarize.NewFromEnv())

	oidcConfig := adapthttp.LoadOIDCFromEnv(ctx)

	h := adapthttp.New(authSvc, timesheetSvc, summarySvc, oidcConfig, webDir).Handler()
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func loadDotenv() {
	for _, p := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Overload(p)
			log.Println("loaded env from", p)
			return
		}
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
