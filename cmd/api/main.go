package main

import (
	"context"
	"flag"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"expense-tracker/internal/api/handlers"
	"expense-tracker/internal/api/middleware"
	"expense-tracker/internal/archive"
	"expense-tracker/internal/categorize"
	"expense-tracker/internal/csvimport"
	"expense-tracker/internal/logger"
	"expense-tracker/internal/reports"
	"expense-tracker/internal/repository"
	"expense-tracker/internal/store"
	"expense-tracker/internal/store/dynamo"
	"expense-tracker/internal/store/memory"
)

func main() {
	// Parse command-line flags
	var (
		port   = flag.String("port", "8080", "HTTP server port")
		table  = flag.String("table", envOr("DYNAMODB_TABLE_NAME", "expense-tracker"), "DynamoDB table name (or set DYNAMODB_TABLE_NAME env)")
		bucket = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket for statement archives (or set GCS_BUCKET env)")
		local  = flag.Bool("local", false, "Use the in-memory store instead of DynamoDB")
	)
	flag.Parse()

	// Initialize logger
	log := logger.New()

	ctx := context.Background()

	// Initialize storage
	var st store.Store
	if *local {
		log.Warn().Msg("Running with in-memory store - data will not persist")
		st = memory.New()
	} else {
		client, err := dynamo.NewClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create DynamoDB client")
		}
		ds := dynamo.New(client, *table, log)
		if err := ds.EnsureTable(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure DynamoDB table")
		}
		st = ds
	}

	// Initialize statement archive
	var arch *archive.Archive
	if *bucket == "" {
		log.Warn().Msg("No GCS bucket configured - statement archiving is disabled")
	} else {
		var err error
		arch, err = archive.New(ctx, *bucket, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create statement archive")
		}
		defer arch.Close()
	}

	// Initialize services
	repo := repository.New(st, log)
	engine := categorize.New(repo, log)
	pipeline := csvimport.NewPipeline(repo, engine, log)
	reportSvc := reports.New(repo, log)

	// Initialize handlers
	ownersHandler := handlers.NewOwnersHandler(repo)
	accountsHandler := handlers.NewAccountsHandler(repo)
	categoriesHandler := handlers.NewCategoriesHandler(repo)
	expensesHandler := handlers.NewExpensesHandler(repo, engine, pipeline, arch)
	reportsHandler := handlers.NewReportsHandler(reportSvc)

	// Create router
	mux := http.NewServeMux()

	// Owners endpoints
	mux.HandleFunc("/api/owners", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			ownersHandler.Create(w, r)
		case http.MethodGet:
			ownersHandler.List(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/owners/", func(w http.ResponseWriter, r *http.Request) {
		name, ok := pathParam(r.URL.Path, "/api/owners/")
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, "Owner name is required")
			return
		}
		if r.Method == http.MethodGet {
			ownersHandler.Get(w, r, name)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Accounts endpoints
	mux.HandleFunc("/api/accounts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			accountsHandler.Create(w, r)
		case http.MethodGet:
			accountsHandler.List(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/accounts/", func(w http.ResponseWriter, r *http.Request) {
		rest, ok := pathParam(r.URL.Path, "/api/accounts/")
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, "Account id is required")
			return
		}
		if accountID, found := strings.CutSuffix(rest, "/deactivate"); found {
			if r.Method == http.MethodPost {
				accountsHandler.Deactivate(w, r, accountID)
			} else {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
			return
		}
		if r.Method == http.MethodGet {
			accountsHandler.Get(w, r, rest)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Categories endpoints
	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			categoriesHandler.Create(w, r)
		case http.MethodGet:
			categoriesHandler.List(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/categories/", func(w http.ResponseWriter, r *http.Request) {
		rest, ok := pathParam(r.URL.Path, "/api/categories/")
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, "Category name is required")
			return
		}
		if name, found := strings.CutSuffix(rest, "/deactivate"); found {
			if r.Method == http.MethodPost {
				categoriesHandler.Deactivate(w, r, name)
			} else {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
			return
		}
		if name, found := strings.CutSuffix(rest, "/labels"); found {
			if r.Method == http.MethodPut {
				categoriesHandler.UpdateLabels(w, r, name)
			} else {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
			return
		}
		if r.Method == http.MethodGet {
			categoriesHandler.Get(w, r, rest)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Expenses endpoints
	mux.HandleFunc("/api/expenses", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			expensesHandler.Create(w, r)
		case http.MethodGet:
			expensesHandler.List(w, r)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/expenses/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			expensesHandler.Search(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/expenses/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			expensesHandler.Upload(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/expenses/", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathParam(r.URL.Path, "/api/expenses/")
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, "Expense id is required")
			return
		}
		if id, found := strings.CutSuffix(id, "/assigned-card-member"); found {
			if r.Method == http.MethodPut {
				expensesHandler.UpdateAssignedCardMember(w, r, id)
			} else {
				middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			}
			return
		}
		switch r.Method {
		case http.MethodGet:
			expensesHandler.Get(w, r, id)
		case http.MethodPatch:
			expensesHandler.Update(w, r, id)
		case http.MethodDelete:
			expensesHandler.Delete(w, r, id)
		default:
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Reports endpoints
	mux.HandleFunc("/api/reports/expenses-by-account", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			reportsHandler.ExpensesByAccount(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(log)(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// pathParam extracts the path remainder after prefix, URL-unescaped so
// identifiers containing spaces survive.
func pathParam(path, prefix string) (string, bool) {
	rest := strings.TrimPrefix(path, prefix)
	if rest == "" {
		return "", false
	}
	if unescaped, err := url.PathUnescape(rest); err == nil {
		rest = unescaped
	}
	return rest, true
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
