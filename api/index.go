package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/amirasaad/cinema/infra/initializer"
	"github.com/amirasaad/cinema/pkg/app"
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/webapi"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

var (
	once    sync.Once
	handler http.HandlerFunc
)

// Handler is the main entry point of the application.
// Think of it like the main() method
func Handler(w http.ResponseWriter, r *http.Request) {
	// This is needed to set the proper request path in `*fiber.Ctx`
	r.RequestURI = r.URL.String()

	once.Do(func() { handler = build() })
	handler.ServeHTTP(w, r)
}

// build wires the application once per instance. Dependencies stay open
// for the life of the instance.
func build() http.HandlerFunc {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load application configuration: %v", err)
	}
	deps, _, err := initializer.InitializeDependencies(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}
	return adaptor.FiberApp(webapi.SetupApp(app.New(deps, cfg)))
}
