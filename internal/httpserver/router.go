package httpserver

import (
	"net/http"
	"os"
	"path/filepath"

	"lv-paperdesk/internal/auth"
	"lv-paperdesk/internal/health"
	"lv-paperdesk/internal/httputil"
	"lv-paperdesk/internal/marketdata"
	"lv-paperdesk/internal/paper"
	"lv-paperdesk/internal/portfolio"

	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	AuthHandler      *auth.Handler
	PaperHandler     *paper.Handler
	PortfolioHandler *portfolio.Handler
	MarketHandler    *marketdata.Handler
	HealthHandler    *health.Handler
	AuthService      *auth.Service
	InternalToken    string
	WSHandler        http.Handler
	UIDist           string
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS middleware for development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Use(SecurityHeaders)
	r.Use(RateLimitMiddleware)

	r.Get("/health", d.HealthHandler.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.AuthHandler.Register)
			r.Post("/login", d.AuthHandler.Login)
		})
		r.Get("/ws", d.WSHandler.ServeHTTP)
		r.Get("/market/quotes", d.MarketHandler.Quotes)
		r.Get("/market/ws", d.MarketHandler.WS.ServeHTTP)
		r.Group(func(r chi.Router) {
			r.Use(WithAuth(d.AuthService))
			r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
				userID, ok := UserID(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.AuthHandler.Me(w, r, userID)
			})
			r.Route("/paper", func(r chi.Router) {
				r.Get("/account", withUser(d.PaperHandler.Account))
				r.Post("/orders", withUser(d.PaperHandler.Submit))
				r.Get("/orders", withUser(d.PaperHandler.Orders))
				r.Get("/orders/pending", withUser(d.PaperHandler.Pending))
				r.Delete("/orders/{id}", withUserID(d.PaperHandler.Cancel))
				r.Post("/orders/{id}/execute", withUserID(d.PaperHandler.Execute))
				r.Get("/positions", withUser(d.PaperHandler.Positions))
				r.Post("/deposit", withUser(d.PaperHandler.Deposit))
				r.Post("/reset", withUser(d.PaperHandler.Reset))
			})
			r.Route("/portfolio", func(r chi.Router) {
				r.Get("/positions", withUser(d.PortfolioHandler.Positions))
				r.Post("/positions", withUser(d.PortfolioHandler.Add))
				r.Post("/positions/{symbol}/sell", withUserID(d.PortfolioHandler.Sell))
				r.Put("/positions/{symbol}", withUserID(d.PortfolioHandler.Update))
				r.Delete("/positions/{symbol}", withUserID(d.PortfolioHandler.Remove))
				r.Post("/clear", withUser(d.PortfolioHandler.Clear))
				r.Get("/history", withUser(d.PortfolioHandler.History))
				r.Get("/valuation", withUser(d.PortfolioHandler.Valuation))
			})
		})
		r.Group(func(r chi.Router) {
			r.Use(InternalAuth(d.InternalToken))
			r.Post("/internal/sweep", d.PaperHandler.Sweep)
		})
	})
	if d.UIDist != "" {
		r.NotFound(spaHandler(d.UIDist).ServeHTTP)
	}
	return r
}

// withUser adapts a user-scoped handler method to http.HandlerFunc.
func withUser(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r)
		if !ok {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
			return
		}
		fn(w, r, userID)
	}
}

// withUserID additionally passes the {id}/{symbol} URL parameter.
func withUserID(fn func(http.ResponseWriter, *http.Request, string, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r)
		if !ok {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
			return
		}
		param := chi.URLParam(r, "id")
		if param == "" {
			param = chi.URLParam(r, "symbol")
		}
		fn(w, r, userID, param)
	}
}

func spaHandler(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" {
			path = "/index.html"
		}
		clean := filepath.Clean(path)
		full := filepath.Join(dir, clean)
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			http.ServeFile(w, r, full)
			return
		}
		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, index)
	})
}
