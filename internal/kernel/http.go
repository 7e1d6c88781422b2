// Package kernel builds the application's HTTP handler: global middleware,
// REST routes, GraphQL, /metrics and the public uploads directory.
package kernel

import (
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/farmermarket/backend/app/controllers"
	appgraphql "github.com/farmermarket/backend/app/graphql"
	"github.com/farmermarket/backend/app/repositories"
	"github.com/farmermarket/backend/app/routes"
	"github.com/farmermarket/backend/app/services"
	"github.com/farmermarket/backend/config"
	"github.com/farmermarket/backend/pkg/cache"
	"github.com/farmermarket/backend/pkg/graphql"
	"github.com/farmermarket/backend/pkg/metrics"
	"github.com/farmermarket/backend/pkg/middleware"
	"github.com/farmermarket/backend/pkg/reqid"
	"github.com/farmermarket/backend/pkg/router"
	"github.com/farmermarket/backend/pkg/storage"
)

// Deps are the connections the kernel wires into the services.
type Deps struct {
	DB      *gorm.DB
	Cache   cache.Store
	Storage *storage.Manager
}

type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds every repository, service and controller and mounts
// them on a fresh router.
func NewHTTPKernel(d Deps) (*HTTPKernel, error) {
	if d.DB == nil {
		return nil, fmt.Errorf("kernel: database is required")
	}
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	if d.Storage == nil {
		d.Storage = storage.NewManager("local")
		d.Storage.Register("local", storage.NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()))
	}

	orders := services.NewOrderService(repositories.NewOrderRepository(d.DB))
	products := services.NewProductService(repositories.NewProductRepository(d.DB), d.Cache, config.CacheTTL())
	messages := services.NewMessageService(repositories.NewMessageRepository(d.DB),
		d.Storage.Default(), d.Storage.DefaultName())
	addresses := services.NewAddressService(repositories.NewAddressRepository(d.DB))
	users := services.NewUserService(repositories.NewUserRepository(d.DB))
	names := services.NewNameService(repositories.NewNameRepository(d.DB))

	schema, err := appgraphql.NewSchema(appgraphql.Services{
		Orders:   orders,
		Products: products,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("kernel: graphql schema: %w", err)
	}

	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics
	//  2. Request ID
	//  3. Recovery
	//  4. Logger
	//  5. CORS
	//  6. Rate limiter
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSAllowedOrigins()...)))
	r.Use(middleware.RateLimitWith(middleware.NewIPLimiter(config.RateLimitPerMinute(), time.Minute), config.TrustProxy()))

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/graphql", "graphql.query", graphql.Handler(schema))
	r.Post("/graphql", "graphql", graphql.Handler(schema))

	if local := d.Storage.Local(); local != nil {
		r.Static(config.StorageURL(), "uploads", http.FileServer(http.Dir(local.Root())))
	}

	routes.RegisterAPI(r, routes.Controllers{
		Orders:    controllers.NewOrderController(orders),
		Products:  controllers.NewProductController(products),
		Messages:  controllers.NewMessageController(messages),
		Addresses: controllers.NewAddressController(addresses),
		Users:     controllers.NewUserController(users),
		Names:     controllers.NewNameController(names),
	})

	return &HTTPKernel{router: r}, nil
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

// Routes lists every mounted endpoint, for route:list.
func (k *HTTPKernel) Routes() []router.Route { return k.router.Routes() }
