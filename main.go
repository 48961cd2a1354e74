package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stemstr/skillgate/internal/facilitator"
	"github.com/stemstr/skillgate/internal/gateway"
	"github.com/stemstr/skillgate/internal/notifier"
	"github.com/stemstr/skillgate/internal/receipts"
	"github.com/stemstr/skillgate/internal/receipts/repo/pg"
	"github.com/stemstr/skillgate/internal/receipts/repo/sqlite"
	"github.com/stemstr/skillgate/internal/resource"
	"github.com/stemstr/skillgate/internal/storage/blob"
	"github.com/stemstr/skillgate/internal/x402"
)

var (
	commit    string
	buildDate string
)

func main() {
	ctx := context.Background()

	configPath := flag.String("config", "", "location of config file. If non is specified config will be loaded from the environment")
	flag.Parse()

	log.Printf("build info: commit: %v date: %v\n", commit, buildDate)

	var (
		cfg Config
		err error
	)
	if *configPath != "" {
		log.Printf("loading config from file %q\n", *configPath)
		err = cfg.Load(*configPath)
	} else {
		log.Println("loading config from env")
		err = cfg.LoadFromEnv()
	}
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}

	// Object store setup
	s3, err := blob.New(ctx, cfg.BlobConfig())
	if err != nil {
		log.Printf("s3 err: %v\n", err)
		os.Exit(1)
	}
	store := resource.New(s3, cfg.SignedURLExpiry())

	// Receipt journal setup
	var journal receipts.Store
	switch cfg.ReceiptsDriver {
	case "sqlite":
		journal, err = sqlite.New(cfg.ReceiptsDSN)
	case "postgres":
		journal, err = pg.New(cfg.ReceiptsDSN)
	}
	if err != nil {
		log.Printf("receipts err: %v\n", err)
		os.Exit(1)
	}
	if journal != nil {
		defer journal.Close()
	}

	// Gateway setup
	var gw *gateway.Gateway
	if cfg.PaymentEnforced {
		var fc *facilitator.Client
		fc, err = facilitator.New(cfg.FacilitatorURL)
		if err != nil {
			log.Printf("facilitator err: %v\n", err)
			os.Exit(1)
		}
		gw, err = gateway.New(cfg.GatewayConfig(), store, fc, journal)
	} else {
		log.Println("payment enforcement disabled, serving skills for free")
		gw, err = gateway.New(cfg.GatewayConfig(), store, nil, journal)
	}
	if err != nil {
		log.Printf("gateway err: %v\n", err)
		os.Exit(1)
	}

	h := handlers{
		gw:         gw,
		extractors: x402.DefaultExtractors,
	}

	if cfg.NotifierNsec != "" {
		n, err := notifier.New(cfg.NotifierNsec, cfg.NotifierRelays)
		if err != nil {
			log.Printf("notifier err: %v\n", err)
			os.Exit(1)
		}
		h.notifier = n
	}

	r := newRouter(&h, cfg.AllowedOrigins)

	port := fmt.Sprintf(":%d", cfg.Port)

	log.Printf("api listening on %v\n", port)

	if err := http.ListenAndServe(port, r); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newRouter(h *handlers, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", x402.HeaderPayment, x402.HeaderVersion},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(metricsMiddleware)

	r.Get("/get-skill", h.handleGetSkill)
	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
