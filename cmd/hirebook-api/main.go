// README: Entry point; loads config, provisions the schema, wires services and serves the loopback API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hirebook/internal/config"
	httptransport "hirebook/internal/http"
	"hirebook/internal/infra"
	"hirebook/internal/migrations"
	"hirebook/internal/modules/driver"
	"hirebook/internal/modules/geocode"
	"hirebook/internal/modules/hire"
	"hirebook/internal/modules/invoice"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	if err := migrations.Provision(ctx, dbPool); err != nil {
		log.Fatalf("provision schema: %v", err)
	}

	driverSvc := driver.NewService(driver.NewStore(dbPool), driver.Options{
		UniqueVehicleNo: cfg.Store.UniqueVehicleNo,
		Timeout:         cfg.Store.RequestTimeout,
	})
	hireSvc := hire.NewService(hire.NewStore(dbPool), driverSvc, cfg.Store.RequestTimeout)

	geoSvc := newGeocoder(ctx, cfg)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Hires:    hireSvc,
		Quoter:   hireSvc,
		Drivers:  driverSvc,
		Geocoder: geoSvc,
		Payee: invoice.Payee{
			Business:    cfg.Payee.Business,
			AccountName: cfg.Payee.AccountName,
			AccountNo:   cfg.Payee.AccountNo,
			Bank:        cfg.Payee.Bank,
			Branch:      cfg.Payee.Branch,
			Currency:    cfg.Payee.Currency,
		},
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	if err := httptransport.NewServer(cfg.HTTP.Addr, router).Run(ctx); err != nil {
		log.Fatal(err)
	}
}

// newGeocoder wires the Google client and the Redis cache when configured.
// Without an API key the service answers ErrDisabled; without Redis it
// calls the API every time.
func newGeocoder(ctx context.Context, cfg config.Config) *geocode.Service {
	var client geocode.Client
	if cfg.Google.APIKey != "" {
		c, err := geocode.NewGoogleClient(cfg.Google.APIKey)
		if err != nil {
			log.Printf("geocode: disabled: %v", err)
		} else {
			client = c
		}
	} else {
		log.Printf("geocode: HIREBOOK_GOOGLE_API_KEY not set; geocoding disabled")
	}

	var cache geocode.Cache
	rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	switch {
	case err != nil:
		log.Printf("geocode: cache disabled: %v", err)
	case rdb != nil:
		cache = geocode.NewRedisCache(rdb)
	}

	return geocode.NewService(client, cache, geocode.WithLogger(log.Printf))
}
