package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"topoplan/internal/adapters/api"
	"topoplan/internal/adapters/api/middleware"
	"topoplan/internal/adapters/db/memory"
	"topoplan/internal/adapters/dns"
	pgrepo "topoplan/internal/adapters/db/postgres"
	"topoplan/internal/adapters/provision"
	appauth "topoplan/internal/application/auth"
	appipam "topoplan/internal/application/ipam"
	apptopology "topoplan/internal/application/topology"
	"topoplan/internal/config"
	domainauth "topoplan/internal/domain/auth"
	"topoplan/internal/domain/topology"
	"topoplan/internal/metrics"
)

//	@title			Topoplan Server API
//	@version		1.0
//	@description	Hierarchical network topology planning API: VLAN grouping, VLSM addressing, access wiring and Core/Distribution routing
//	@termsOfService	http://swagger.io/terms/

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and JWT token.

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().
		Str("http_port", cfg.HTTPPort).
		Bool("auth_enabled", cfg.Auth.Enabled).
		Bool("db_enabled", cfg.Database.Enabled).
		Bool("provision_enabled", cfg.Provision.Enabled).
		Msg("Starting Topoplan server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories (choose Postgres or in-memory)
	var userRepo domainauth.Repository
	var topologyRepo topology.Repository
	var locker topology.Locker
	var db *sql.DB
	var pool *pgxpool.Pool

	if cfg.Database.Enabled {
		log.Info().Msg("Initializing Postgres repositories")
		var err error
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres")
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)

		initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := db.PingContext(initCtx); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("ping postgres")
		}
		if err := pgrepo.RunMigrations(initCtx, db, cfg.Database.Migrations); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("run migrations")
		}
		// advisory locks pin a connection each, so they get their own pool
		pool, err = pgxpool.New(initCtx, cfg.Database.DSN)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres lock pool")
		}

		userRepo = pgrepo.NewUserRepository(db)
		topologyRepo = pgrepo.NewTopologyRepository(db)
		locker = pgrepo.NewLockManager(pool)
	} else {
		log.Warn().Msg("DB disabled - using in-memory repositories")
		userRepo = memory.NewUserRepository()
		topologyRepo = memory.NewTopologyRepository()
		locker = memory.NewLockManager()
	}

	var provisioner topology.Provisioner
	if cfg.Provision.Enabled {
		sshProvisioner, err := provision.NewSSHProvisioner(cfg.Provision)
		if err != nil {
			log.Fatal().Err(err).Msg("init ssh provisioner")
		}
		provisioner = sshProvisioner
		log.Info().Str("username", cfg.Provision.Username).Msg("SSH provisioning enabled")
	}

	reg := metrics.NewRegistry()

	// Initialize services
	ipamService := appipam.NewService(memory.NewIPAMLedger)
	topologyService := apptopology.NewService(topologyRepo, locker, ipamService, provisioner, apptopology.Options{
		DefaultIPBase:    cfg.Planning.DefaultIPBase,
		RoutingThreshold: cfg.Planning.RoutingThreshold,
		Observer:         reg,
	})
	authService := appauth.NewService(&cfg.Auth, userRepo)
	if !cfg.Auth.Enabled {
		log.Warn().Msg("Authentication disabled - running in open mode with admin permissions")
	}

	handler := api.NewHandler(topologyService, authService, &cfg.Auth)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	r.Use(reg.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	handler.RegisterRoutes(r, middleware.AuthMiddleware(authService, &cfg.Auth), middleware.RequireAdmin())
	r.GET("/metrics", gin.WrapH(reg.Handler()))

	var dnsServer *dns.Server
	if cfg.DNS.Enabled {
		dnsServer = dns.NewServer(topologyRepo, cfg.DNS.Addr, cfg.DNS.Zone, uint32(cfg.DNS.TTL)) // #nosec G115 -- validated non-negative
		go func() {
			if err := dnsServer.ListenAndServe(); err != nil {
				log.Error().Err(err).Msg("DNS server stopped")
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Msgf("Starting Topoplan server on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	if dnsServer != nil {
		if err := dnsServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("dns shutdown")
		}
	}
	if pool != nil {
		pool.Close()
	}
	if db != nil {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("close postgres")
		}
	}
}
