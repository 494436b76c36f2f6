package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flightnum-service/internal/cache"
	"flightnum-service/internal/fetcher"
	"flightnum-service/internal/handler"
	"flightnum-service/internal/providers"
	"flightnum-service/internal/ratelimit"
	"flightnum-service/internal/router"
	"flightnum-service/pkg/logger"
	"flightnum-service/pkg/metrics"
)

type Config struct {
	Port          string
	Provider      string
	CacheEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	CacheWindow   time.Duration
}

func main() {
	cfg := loadConfig()
	log := logger.New()

	active := providers.Identity(cfg.Provider)
	if !active.Valid() {
		log.Fatal("unknown provider in config", "provider", cfg.Provider)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	rt := router.New(active,
		providers.NewDemoProvider(),
		providers.NewFlightAPIProvider(),
		providers.NewCompScheduleProvider(),
		providers.NewAviationStackProvider(),
		providers.NewAirLabsProvider(),
		providers.NewCustomProvider(),
	)

	limiter := ratelimit.New(ratelimit.DefaultConfig())
	limiter.SetLimit(string(providers.FlightAPI), 2, 4)
	limiter.SetLimit(string(providers.AviationStack), 1, 2)
	limiter.SetLimit(string(providers.AirLabs), 1, 2)

	var flightCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			Window:   cfg.CacheWindow,
		})
		if err != nil {
			log.Fatal("failed to connect to redis", "error", err)
		}
		flightCache = redisCache
		log.Info("redis result cache enabled", "host", cfg.RedisHost, "port", cfg.RedisPort, "window", cfg.CacheWindow)
	} else {
		flightCache = cache.NewMemoryCache(cfg.CacheWindow)
		log.Info("using in-memory result cache", "window", cfg.CacheWindow)
	}
	defer flightCache.Close()

	m := metrics.New("flightnum")
	f := fetcher.New(rt, flightCache, limiter, log, m)
	h := handler.NewSearchHandler(f, rt, log)

	api := e.Group("/api/v1")
	api.GET("/flights/search", h.Search)
	api.GET("/provider", h.GetProvider)
	api.PUT("/provider", h.SetProvider)
	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	log.Info("starting flight number lookup server", "port", cfg.Port, "provider", rt.Current())
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

func loadConfig() Config {
	godotenv.Load()

	return Config{
		Port:          getEnv("PORT", "8080"),
		Provider:      getEnv("PROVIDER", "flightapi"),
		CacheEnabled:  getEnvBool("CACHE_ENABLED", true),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheWindow:   getEnvDuration("CACHE_WINDOW", time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed
	}
	return value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
