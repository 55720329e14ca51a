package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otellogrus"

	"github.com/jiaming2012/txo-chain/src/calendar"
	"github.com/jiaming2012/txo-chain/src/eventconsumers"
	"github.com/jiaming2012/txo-chain/src/eventproducers/chainapi"
	"github.com/jiaming2012/txo-chain/src/eventpubsub"
	"github.com/jiaming2012/txo-chain/src/store"
	"github.com/jiaming2012/txo-chain/src/utils"
	"github.com/jiaming2012/txo-chain/src/views"
	"github.com/jiaming2012/txo-chain/src/worker"
)

func main() {
	run()
}

func setupPprof(router *mux.Router) {
	pprofRouter := router.PathPrefix("/debug/pprof").Subrouter()
	pprofRouter.HandleFunc("/", http.HandlerFunc(pprof.Index))
	pprofRouter.HandleFunc("/cmdline", http.HandlerFunc(pprof.Cmdline))
	pprofRouter.HandleFunc("/profile", http.HandlerFunc(pprof.Profile))
	pprofRouter.HandleFunc("/symbol", http.HandlerFunc(pprof.Symbol))
	pprofRouter.HandleFunc("/trace", http.HandlerFunc(pprof.Trace))
	pprofRouter.Handle("/goroutine", pprof.Handler("goroutine"))
	pprofRouter.Handle("/heap", pprof.Handler("heap"))
}

func run() {
	projectsDir := utils.GetEnvOrDefault("PROJECTS_DIR", ".")
	goEnv := utils.GetEnvOrDefault("GO_ENV", "development")

	if err := utils.InitEnvironmentVariables(projectsDir, goEnv); err != nil {
		log.Panic(err)
	}

	log.SetOutput(os.Stdout)
	log.SetLevel(utils.ParseLogLevel(os.Getenv("LOG_LEVEL")))
	log.Infof("Log level set to %v", log.GetLevel())

	// Set up Telemetry
	log.AddHook(otellogrus.NewHook(otellogrus.WithLevels(
		log.PanicLevel,
		log.FatalLevel,
		log.ErrorLevel,
		log.WarnLevel,
	)))

	port, err := utils.GetEnv("PORT")
	if err != nil {
		log.Fatalf("$PORT not set: %v", err)
	}

	configFile, err := utils.GetEnv("CHAIN_CONFIG_FILE")
	if err != nil {
		log.Fatalf("$CHAIN_CONFIG_FILE not set: %v", err)
	}

	if !filepath.IsAbs(configFile) {
		configFile = filepath.Join(projectsDir, configFile)
	}

	config, err := utils.LoadChainConfig(configFile)
	if err != nil {
		log.Fatalf("failed to load chain config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	eventpubsub.Init()

	cal := calendar.New(config.ExchangeLocation)
	contractStore := store.NewContractStore(store.NewRealClock(), config.FlashTTL)
	viewsConfig := views.NewConfig(config)

	// Start event clients
	if err := eventconsumers.NewChainStoreWorker(&wg, contractStore).Start(ctx); err != nil {
		log.Fatalf("failed to start chain store worker: %v", err)
	}

	viewsWorker := eventconsumers.NewChainViewsWorker(&wg, contractStore, cal, viewsConfig, config.ViewsThrottle)
	viewsWorker.Start(ctx)

	if feedURL, err := utils.GetEnv("FEED_WS_URL"); err == nil {
		worker.NewFeedClient(&wg, feedURL).Start(ctx)
	} else {
		log.Info("$FEED_WS_URL not set, accepting feed events over http only")
	}

	// Setup router
	router := mux.NewRouter()
	chainapi.SetupHandler(router, chainapi.NewHandler(contractStore, cal, viewsConfig, viewsWorker))
	setupPprof(router)

	// Setup web server
	srv := &http.Server{
		Handler: router,
		Addr:    fmt.Sprintf(":%s", port),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// Start web server
	go func() {
		log.Infof("listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Create channel for shutdown signals.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	signal.Notify(stop, syscall.SIGTERM)

	log.Info("Main: init complete")

	// Block here until program is shut down
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Main: server shutdown: %v", err)
	}

	// EntrySignal -> shut down event clients
	cancel()

	// Wait for event clients to shut down
	wg.Wait()
	eventpubsub.WaitAsync()

	log.Info("Main: gracefully stopped!")
}
