package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fbpitch/internal/auth"
	"fbpitch/internal/cache"
	"fbpitch/internal/cart"
	"fbpitch/internal/checkout"
	"fbpitch/internal/database"
	"fbpitch/internal/model"
	"fbpitch/internal/promo"
)

// Server представляет HTTP-сервер магазина.
type Server struct {
	port     string
	router   *chi.Mux
	storage  database.Storage
	cache    cache.Cache
	carts    cart.Repository
	pipeline *checkout.Pipeline
	promos   *promo.Resolver
	auth     *auth.Service
	notifier ContactNotifier
}

// NewServer создает и настраивает новый экземпляр сервера.
func NewServer(
	port string,
	storage database.Storage,
	productCache cache.Cache,
	carts cart.Repository,
	pipeline *checkout.Pipeline,
	promos *promo.Resolver,
	authService *auth.Service,
	notifier ContactNotifier,
) *Server {
	server := &Server{
		port:     port,
		storage:  storage,
		cache:    productCache,
		carts:    carts,
		pipeline: pipeline,
		promos:   promos,
		auth:     authService,
		notifier: notifier,
	}
	server.router = server.setupRouter()
	return server
}

// Run запускает HTTP-сервер.
func (s *Server) Run() error {
	address := fmt.Sprintf(":%s", s.port)
	fmt.Printf("🚀 HTTP-сервер запущен на http://localhost%s\n", address)
	return http.ListenAndServe(address, s.router)
}

// setupRouter настраивает маршрутизацию.
func (s *Server) setupRouter() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	products := NewProductHandler(s.storage, s.cache)
	carts := NewCartHandler(s.carts, s.storage)
	checkouts := NewCheckoutHandler(s.pipeline, s.promos, s.storage)
	users := NewUserHandler(s.auth, s.storage)
	contacts := NewContactHandler(s.storage, s.notifier)

	// Публичные маршруты
	router.Get("/api/products", products.List)
	router.Post("/api/signup", users.Signup)
	router.Post("/api/login", users.Login)
	router.Post("/api/admin-login", users.AdminLogin)
	router.Post("/api/verify-admin", users.VerifyAdmin)
	router.Post("/api/contact", contacts.Submit)
	router.Handle("/metrics", promhttp.Handler())

	// Маршруты покупателя
	router.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware(model.RoleUser))
		r.Get("/api/cart", carts.Get)
		r.Post("/api/cart", carts.Add)
		r.Delete("/api/cart", carts.Remove)
		r.Post("/api/checkout", checkouts.Submit)
		r.Post("/api/promo/apply", checkouts.ApplyPromo)
	})

	// Админские маршруты
	router.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware(model.RoleAdmin))
		r.Post("/api/products", products.Create)
		r.Put("/api/products", products.Update)
		r.Delete("/api/products", products.Delete)
		r.Get("/api/orders", checkouts.ListOrders)
		r.Get("/api/admin-contact-messages", contacts.List)
		r.Delete("/api/admin-contact-messages", contacts.Delete)
	})

	return router
}
