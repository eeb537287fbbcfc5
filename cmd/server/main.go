package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/imroc/req/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spendsync/spendsync/pkg/extractor"
	"github.com/spendsync/spendsync/pkg/ledger"
	"github.com/spendsync/spendsync/pkg/mailbox"
	"github.com/spendsync/spendsync/pkg/notifications"
	"github.com/spendsync/spendsync/pkg/repo"
	"github.com/spendsync/spendsync/pkg/syncer"
)

const defaultFilterQuery = `from:alerts@bank.example subject:"transaction alert"`

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
	log.Logger = logger

	ctx := logger.WithContext(context.Background())

	dataDir := os.Getenv("SPENDSYNC_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	blobs, err := repo.NewFileStore(dataDir)
	if err != nil {
		panic(err)
	}

	ledgerStore := ledger.NewStore(blobs)
	if err = ledgerStore.Load(ctx); err != nil {
		panic(err)
	}

	model, err := extractor.NewGeminiModel(ctx,
		os.Getenv("GEMINI_API_KEY"),
		os.Getenv("GEMINI_MODEL"),
	)
	if err != nil {
		panic(err)
	}

	auth := mailbox.NewAuthenticator(
		os.Getenv("GOOGLE_CLIENT_ID"),
		os.Getenv("GOOGLE_CLIENT_SECRET"),
		os.Getenv("OAUTH_REDIRECT_URL"),
	)

	filterQuery := os.Getenv("MAIL_FILTER_QUERY")
	if filterQuery == "" {
		filterQuery = defaultFilterQuery
	}

	var notifier syncer.Notifier
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatID, parseErr := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
		if parseErr != nil {
			panic(parseErr)
		}

		notifier = notifications.NewTelegram(token, chatID, req.DefaultClient())
	}

	syncSvc := syncer.NewSyncer(syncer.Config{
		Mailbox:   mailbox.NewClient(auth),
		Extractor: extractor.NewExtractor(model),
		Ledger:    ledgerStore,
		Notifier:  notifier,
		Query:     filterQuery,
		Limit:     mailbox.DefaultResultCap,
		OnProgress: func(completed, total int) {
			logger.Info().
				Int("completed", completed).
				Int("total", total).
				Msg("sync progress")
		},
	})

	handler := NewHandler(os.Getenv("SPENDSYNC_API_KEY"), syncSvc, ledgerStore, auth)

	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(logger.WithContext(req.Context())))
		})
	})

	r.HandleFunc("/api/auth/url", handler.AuthURL).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/callback", handler.AuthCallback).Methods(http.MethodGet)
	r.HandleFunc("/api/sync", handler.Sync).Methods(http.MethodPost)
	r.HandleFunc("/api/paste", handler.Paste).Methods(http.MethodPost)
	r.HandleFunc("/api/transactions", handler.Transactions).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", handler.Stats).Methods(http.MethodGet)
	r.HandleFunc("/api/export", handler.Export).Methods(http.MethodGet)

	listenAddr := ":8080"
	if val, ok := os.LookupEnv("LISTEN_ADDR"); ok {
		listenAddr = val
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         listenAddr,
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  60 * time.Second,
	}

	logger.Info().Str("addr", listenAddr).Msg("spendsync listening")

	panic(srv.ListenAndServe())
}
