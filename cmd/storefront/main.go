package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"crochethub/internal/audit"
	"crochethub/internal/checkout"
	"crochethub/internal/config"
	"crochethub/internal/kv"
	"crochethub/internal/metrics"
	"crochethub/internal/model"
	"crochethub/internal/recovery"
	"crochethub/internal/shop"
)

type flags struct {
	ConfigPath string
	DataDir    string
	Backend    string
	Demo       bool
	Discount   bool
}

func main() {
	f := readFlags()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := run(f, log); err != nil {
		log.Fatal().Err(err).Msg("storefront failed")
	}
}

func readFlags() flags {
	var f flags
	flag.StringVar(&f.ConfigPath, "config", "", "optional YAML config file")
	flag.StringVar(&f.DataDir, "data-dir", "", "override data directory")
	flag.StringVar(&f.Backend, "backend", "", "override kv backend: pebble|badger|memory")
	flag.BoolVar(&f.Demo, "demo", false, "run a scripted shopping session")
	flag.BoolVar(&f.Discount, "discount", false, "grant the 10% coupon in the demo session")
	flag.Parse()
	return f
}

func run(f flags, log zerolog.Logger) error {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return err
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if f.Backend != "" {
		cfg.Backend = f.Backend
	}
	log.Info().Str("backend", cfg.Backend).Str("data_dir", cfg.DataDir).Str("audit_sink", cfg.AuditSink).Msg("starting storefront state layer")

	var inner kv.Store
	switch cfg.Backend {
	case "badger":
		bs, err := kv.NewBadgerStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("init badger: %w", err)
		}
		inner = bs
	case "memory":
		inner = kv.NewMemoryStore()
	default:
		ps, err := kv.NewPebbleStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("init pebble: %w", err)
		}
		inner = ps
	}
	defer inner.Close()

	mreg := metrics.NewRegistry()

	store := kv.NewNotifyingStore(inner, log, audit.NewCounterSink(mreg.StoreWrites))
	if err := wireAuditSinks(store, cfg, log); err != nil {
		return err
	}

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", mreg.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
		})
		_ = http.ListenAndServe(cfg.MetricsAddr, mux)
	}()

	cart := shop.NewCartLedger(store, log)
	delivery := shop.NewDeliveryStore(store, log)
	discount := shop.NewDiscountState(store, log)
	history := shop.NewOrderHistory(store, log)
	reviews := shop.NewReviewBook(store, log)
	gallery := shop.NewGallery(store, log)
	pending := shop.NewPendingCheckout(store)

	validator := recovery.NewValidator(cart, delivery, discount, history, reviews, gallery, pending, log, mreg)
	if err := validator.Run(); err != nil {
		return err
	}
	shop.NewSummary(cart, history, delivery, discount, reviews, gallery).Log(log)

	if f.Demo {
		co := checkout.NewCoordinator(cart, delivery, discount, history, pending, store, log, mreg)
		if err := demoSession(cart, delivery, discount, co, f.Discount, log); err != nil {
			return err
		}
		shop.NewSummary(cart, history, delivery, discount, reviews, gallery).Log(log)
	}

	// Session-end flush, mirroring the page-unload persist.
	if err := cart.Flush(); err != nil {
		log.Warn().Err(err).Msg("session-end cart flush failed")
	}
	return nil
}

func wireAuditSinks(store *kv.NotifyingStore, cfg *config.Config, log zerolog.Logger) error {
	switch cfg.AuditSink {
	case config.SinkNone:
	case config.SinkLog:
		store.Subscribe(audit.NewSink(audit.NewLoggerWriter(log)))
	case config.SinkKafka:
		store.Subscribe(audit.NewSink(audit.NewKafkaWriter(cfg.KafkaBroker, cfg.KafkaTopic)))
	case config.SinkBoth:
		fw, err := audit.NewFileWriter(cfg.AuditDir, "store-writes.jsonl")
		if err != nil {
			return fmt.Errorf("init audit file: %w", err)
		}
		kw := audit.NewKafkaWriter(cfg.KafkaBroker, cfg.KafkaTopic)
		store.Subscribe(audit.NewSink(audit.NewMultiWriter(fw, kw)))
	default: // file
		fw, err := audit.NewFileWriter(cfg.AuditDir, "store-writes.jsonl")
		if err != nil {
			return fmt.Errorf("init audit file: %w", err)
		}
		store.Subscribe(audit.NewSink(fw))
	}
	return nil
}

func demoSession(cart *shop.CartLedger, delivery *shop.DeliveryStore, discount *shop.DiscountState, co *checkout.Coordinator, grantDiscount bool, log zerolog.Logger) error {
	if _, err := cart.Add("Coaster", 500); err != nil {
		return err
	}
	if _, err := cart.Add("Scarf", 1500); err != nil {
		return err
	}
	log.Info().Int("items", cart.Count()).Float64("total", cart.Total()).Msg("cart filled")

	profile := model.DeliveryProfile{
		FullName:       "Demo Customer",
		Phone:          "0300-1234567",
		Email:          "demo@example.com",
		HomeAddress:    "12 Wool Lane",
		Province:       "Punjab",
		City:           "Lahore",
		Payment:        model.PaymentEasyPaisa,
		EasyPaisaPhone: "0300-1234567",
	}
	if err := profile.Validate(); err != nil {
		return err
	}
	if err := delivery.Set(profile); err != nil {
		return err
	}

	if grantDiscount {
		if err := discount.Set(model.DiscountTenPercent); err != nil {
			return err
		}
	}

	order, err := co.PlaceOrder()
	if err != nil {
		return err
	}
	b, _ := json.MarshalIndent(order, "", "  ")
	fmt.Println(string(b))
	return nil
}
