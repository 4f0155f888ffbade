package main

import (
	"campusalert/pkg/catalog"
	"campusalert/pkg/config"
	"campusalert/pkg/handlers"
	"campusalert/pkg/location"
	"campusalert/pkg/media"
	"campusalert/pkg/middleware"
	"campusalert/pkg/posts"
	"campusalert/pkg/seed"
	"campusalert/pkg/session"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const mediaPrefix = "/media/"

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	zapLogger, err := newZapLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer zapLogger.Sync() // flushes buffer, if any
	logger := zapLogger.Sugar()

	app, err := NewApplication(cfg, logger, time.Now)
	if err != nil {
		logger.Fatalw("can't start application", "error", err)
	}

	err = app.Run()
	if err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}

func newZapLogger(cfg config.LogConfig) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

type Application struct {
	Config  *config.Config
	Logger  *zap.SugaredLogger
	Handler http.Handler

	HTTPServer *http.Server
}

// NewApplication loads the catalog and the seed reports and wires the
// handlers. clock is the time source for every status computation.
func NewApplication(cfg *config.Config, logger *zap.SugaredLogger, clock posts.Clock) (*Application, error) {
	cat, err := loadCatalog(cfg.Catalog, logger)
	if err != nil {
		return nil, err
	}

	var seeded []*posts.Post
	if cfg.Seed.Enabled {
		seeded, err = seed.Load(cfg.Seed.Path, cat, clock())
		if err != nil {
			return nil, fmt.Errorf("load seed posts: %w", err)
		}
	}
	logger.Infow("catalog ready", "categories", len(cat.Categories()), "users", len(cat.Users()), "posts", len(seeded))

	sm, err := session.NewStaticManager(cat, cfg.App.ActingUser)
	if err != nil {
		return nil, err
	}

	jitterSeed := cfg.App.JitterSeed
	if jitterSeed == 0 {
		jitterSeed = clock().UnixNano()
	}

	postsRepo := posts.NewRepo(seeded)
	mediaStore := media.NewMemoryStore(mediaPrefix)
	newID := func() string { return uuid.New().String() }

	submitter := &posts.Submitter{
		Categories: cat,
		Media:      mediaStore,
		Places:     location.NewSynthesizer(location.Reference, rand.NewSource(jitterSeed)),
		Posts:      postsRepo,
		Clock:      clock,
		NewID:      newID,
	}

	postHandler := &handlers.PostHandler{
		PostsRepo:      postsRepo,
		Submitter:      submitter,
		Clock:          clock,
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
		Logger:         logger,
	}
	commentHandler := &handlers.CommentHandler{PostsRepo: postsRepo, Clock: clock, NewID: newID, Logger: logger}
	statsHandler := &handlers.StatsHandler{PostsRepo: postsRepo, Users: cat, Clock: clock, Logger: logger}
	mapHandler := &handlers.MapHandler{PostsRepo: postsRepo, Clock: clock, Logger: logger}
	catalogHandler := &handlers.CatalogHandler{Catalog: cat, Logger: logger}
	mediaHandler := &handlers.MediaHandler{Store: mediaStore, Logger: logger}

	r := mux.NewRouter()
	api := r.PathPrefix("/api/").Subrouter()

	api.HandleFunc("/posts", postHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/posts", postHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}", postHandler.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/posts/{id}/like", postHandler.Like).Methods(http.MethodPost)

	api.HandleFunc("/posts/{id}/comments", commentHandler.Add).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/comments/{comment_id}/like", commentHandler.Like).Methods(http.MethodPost)

	api.HandleFunc("/stats", statsHandler.Dashboard).Methods(http.MethodGet)
	api.HandleFunc("/profile", statsHandler.Profile).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/profile", statsHandler.UserProfile).Methods(http.MethodGet)
	api.HandleFunc("/map", mapHandler.Map).Methods(http.MethodGet)

	api.HandleFunc("/categories", catalogHandler.Categories).Methods(http.MethodGet)
	api.HandleFunc("/users", catalogHandler.Users).Methods(http.MethodGet)
	api.HandleFunc("/me", catalogHandler.Me).Methods(http.MethodGet)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteResponse(w, "not found", http.StatusNotFound)
	})

	r.HandleFunc(mediaPrefix+"{id}", mediaHandler.Get).Methods(http.MethodGet)

	h := middleware.Session(logger, sm, r)
	h = middleware.Log(logger, h)
	h = middleware.Recover(logger, h)

	return &Application{Config: cfg, Logger: logger, Handler: h}, nil
}

func loadCatalog(cfg config.CatalogConfig, logger *zap.SugaredLogger) (*catalog.Catalog, error) {
	if cfg.MongoURI == "" {
		return catalog.Default(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	client, err := catalog.NewMongoClient(ctx, cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("connect to catalog database: %w", err)
	}
	defer client.Disconnect(context.Background())

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		return nil, fmt.Errorf("ping catalog database: %w", err)
	}

	loader := catalog.NewMongoLoader(client.Database(cfg.Database), cfg.CategoriesCollection, cfg.UsersCollection)
	cat, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	logger.Infow("catalog loaded from mongo", "database", cfg.Database)
	return cat, nil
}

// Run serves until SIGINT or SIGTERM and then shuts down gracefully.
func (a *Application) Run() error {
	srv := &http.Server{
		Handler:      a.Handler,
		Addr:         a.Config.Server.Addr,
		WriteTimeout: a.Config.Server.WriteTimeout,
		ReadTimeout:  a.Config.Server.ReadTimeout,
	}
	a.HTTPServer = srv

	errs := make(chan error, 1)
	go func() {
		a.Logger.Infof("Started server at %s", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errs:
		return err
	case sig := <-quit:
		a.Logger.Infow("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
