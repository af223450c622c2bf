package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	adminapp "github.com/sngm3741/feedback-forms/api/internal/admin/application"
	"github.com/sngm3741/feedback-forms/api/internal/auth"
	"github.com/sngm3741/feedback-forms/api/internal/config"
	"github.com/sngm3741/feedback-forms/api/internal/infrastructure/memory"
	mongostore "github.com/sngm3741/feedback-forms/api/internal/infrastructure/mongo"
	redisstore "github.com/sngm3741/feedback-forms/api/internal/infrastructure/redis"
	adminhttp "github.com/sngm3741/feedback-forms/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/feedback-forms/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/feedback-forms/api/internal/interfaces/http/public"
	publicapp "github.com/sngm3741/feedback-forms/api/internal/public/application"
)

// Server owns the HTTP lifecycle and wires application services into the
// public and dashboard handlers.
type Server struct {
	logger         *zap.SugaredLogger
	client         *mongo.Client
	redis          *goredis.Client
	location       *time.Location
	auth           *auth.Service
	defaultAdmin   auth.DefaultAdmin
	formService    adminapp.FormService
	feedbackAdmin  adminapp.FeedbackService
	submissions    publicapp.SubmissionService
	addr           string
	allowedOrigins []string
}

// Dependencies are the connections opened by the caller. Mongo is nil for
// in-memory storage; Redis is nil when revocations stay in process.
type Dependencies struct {
	Mongo *mongo.Client
	Redis *goredis.Client
}

// New assembles repositories, services and the auth layer from cfg.
func New(cfg config.Config, deps Dependencies) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	var (
		forms     adminapp.FormRepository
		feedbacks interface {
			adminapp.FeedbackRepository
			publicapp.FeedbackWriter
		}
		users auth.UserRepository
	)
	if deps.Mongo != nil {
		db := deps.Mongo.Database(cfg.MongoDatabase)
		forms = mongostore.NewFormRepository(db, cfg.FormCollection)
		feedbacks = mongostore.NewFeedbackRepository(db, cfg.FeedbackCollection, cfg.FormCollection)
		users = mongostore.NewUserRepository(db, cfg.UserCollection)
	} else {
		store := memory.NewStore()
		forms = store.Forms()
		feedbacks = store.Feedbacks()
		users = store.Users()
	}

	var revocations auth.RevocationStore
	if deps.Redis != nil {
		revocations = redisstore.NewRevocationStore(deps.Redis)
	} else {
		revocations = auth.NewMemoryRevocationStore()
	}

	keys := make([]auth.Key, 0, len(cfg.JWTConfigs))
	for _, jc := range cfg.JWTConfigs {
		keys = append(keys, auth.Key{Issuer: jc.Issuer, Secret: jc.Secret})
	}
	authService, err := auth.NewService(users, revocations, auth.Config{
		Keys:     keys,
		Audience: cfg.JWTAudience,
		TTL:      cfg.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("configure auth: %w", err)
	}

	return &Server{
		logger:   logger,
		client:   deps.Mongo,
		redis:    deps.Redis,
		location: cfg.Location(),
		auth:     authService,
		defaultAdmin: auth.DefaultAdmin{
			Email:    cfg.DefaultAdmin.Email,
			Password: cfg.DefaultAdmin.Password,
			Name:     cfg.DefaultAdmin.Name,
		},
		formService:    adminapp.NewFormService(forms, feedbacks),
		feedbackAdmin:  adminapp.NewFeedbackService(feedbacks),
		submissions:    publicapp.NewSubmissionService(forms, feedbacks),
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}, nil
}

// Run ensures the default admin, serves HTTP and blocks until shutdown.
func (s *Server) Run() error {
	if err := s.EnsureDefaultAdmin(context.Background()); err != nil {
		s.logger.Errorw("ensure default admin", "error", err)
	}

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Infow("http server listening", "addr", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

// Router builds the full route table.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:      s.logger,
		Submissions: s.submissions,
		Auth:        s.auth,
	})
	publicHandler.Register(router, s.authMiddleware)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:    s.logger,
		Forms:     s.formService,
		Feedbacks: s.feedbackAdmin,
		Location:  s.location,
	})
	router.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		adminHandler.Register(r)
	})
	return router
}

// requestLogger emits one structured line per request.
func requestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Infow("request",
					"requestId", middleware.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// withCORS returns a middleware adding CORS headers for allowed origins.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler reports storage reachability only.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.client == nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
				"status":  "ok",
				"storage": "memory",
				"time":    time.Now().In(s.location).Format(time.RFC3339),
			})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status":  "ok",
			"storage": "mongo",
			"time":    time.Now().In(s.location).Format(time.RFC3339),
		})
	}
}

// authMiddleware verifies the bearer token and stores the principal in the
// request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "Authorization must be a Bearer token")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		claims, err := s.auth.Parse(r.Context(), tokenString)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrTokenRevoked) {
				s.logger.Errorw("verify token", "error", err)
			}
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		user := commonhttp.AuthenticatedUser{
			ID:      claims.Subject,
			Email:   claims.Email,
			Name:    claims.Name,
			Role:    claims.Role,
			TokenID: claims.ID,
		}
		if claims.ExpiresAt != nil {
			user.ExpiresAt = claims.ExpiresAt.Time
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// EnsureDefaultAdmin creates the configured admin on an empty user store.
func (s *Server) EnsureDefaultAdmin(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	created, err := s.auth.EnsureAdmin(ctx, s.defaultAdmin)
	if err != nil {
		return err
	}
	if created {
		s.logger.Infow("default admin created", "email", s.defaultAdmin.Email)
	}
	return nil
}

// shutdown closes storage connections with a timeout.
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if s.client != nil {
		if err := s.client.Disconnect(shutdownCtx); err != nil {
			s.logger.Warnw("mongo disconnect", "error", err)
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warnw("redis close", "error", err)
		}
	}
	_ = s.logger.Sync()
}

// waitForShutdown blocks until ListenAndServe returns or a signal arrives,
// then drains the server gracefully.
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case sig := <-sigChan:
		srv.logger.Infow("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Warnw("http shutdown", "error", err)
		}
	}

	srv.shutdown(context.Background())
	return runErr
}
