package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"edgelink/graph"
	"edgelink/internal/demo"
	"edgelink/ogm"
	"edgelink/pkg/config"
	"edgelink/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting relation browser API...")

	ctx := context.Background()
	client, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.Neo4jDatabase)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer client.Close(context.Background())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Where a person lives, through the LIVES_IN single relation.
		api.GET("/person/:key/city", func(c *gin.Context) {
			ctx := c.Request.Context()

			person, ok := loadPerson(c, client)
			if !ok {
				return
			}
			city, err := demo.LivesIn.Of(person).Get(ctx)
			if err != nil {
				log.Error("Failed to fetch city", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch city"})
				return
			}
			if city == nil {
				c.JSON(http.StatusOK, gin.H{"city": nil})
				return
			}
			c.JSON(http.StatusOK, gin.H{"city": city.(*demo.City)})
		})

		// Move a person: replaces the LIVES_IN edge atomically.
		api.PUT("/person/:key/city", func(c *gin.Context) {
			ctx := c.Request.Context()

			var req struct {
				CityKey string `json:"city_key" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			person, ok := loadPerson(c, client)
			if !ok {
				return
			}
			city, err := demo.LoadCity(ctx, client, req.CityKey)
			if err != nil {
				respondLoadError(c, err)
				return
			}
			if err := demo.LivesIn.Of(person).Replace(ctx, city); err != nil {
				log.Error("Failed to replace city", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace city"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"city": city})
		})

		// The person's step chain, windowed by skip/limit.
		api.GET("/person/:key/steps", func(c *gin.Context) {
			ctx := c.Request.Context()

			person, ok := loadPerson(c, client)
			if !ok {
				return
			}
			handle := demo.Steps.Of(person)
			if !applyWindow(c, handle) {
				return
			}

			entities, err := handle.All(ctx)
			if err != nil {
				log.Error("Failed to iterate steps", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to iterate steps"})
				return
			}
			steps := make([]*demo.Step, 0, len(entities))
			for _, e := range entities {
				steps = append(steps, e.(*demo.Step))
			}
			c.JSON(http.StatusOK, gin.H{"steps": steps})
		})

		// Count of the same window, for pagination UIs.
		api.GET("/person/:key/steps/count", func(c *gin.Context) {
			ctx := c.Request.Context()

			person, ok := loadPerson(c, client)
			if !ok {
				return
			}
			handle := demo.Steps.Of(person)
			if !applyWindow(c, handle) {
				return
			}

			total, err := handle.Count(ctx)
			if err != nil {
				log.Error("Failed to count steps", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count steps"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"total": total})
		})
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("Listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
		case <-ctx.Done():
			return nil
		}
		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err := group.Wait(); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}

func loadPerson(c *gin.Context, client *graph.Client) (*demo.Person, bool) {
	person, err := demo.LoadPerson(c.Request.Context(), client, c.Param("key"))
	if err != nil {
		respondLoadError(c, err)
		return nil, false
	}
	return person, true
}

func respondLoadError(c *gin.Context, err error) {
	var notFound *demo.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}
	logger.Get().Error("Failed to load entity", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entity"})
}

// applyWindow copies skip/limit query params onto the handle. Responds with
// 400 and returns false on bad input.
func applyWindow(c *gin.Context, handle *ogm.ChainHandle) bool {
	for _, param := range []struct {
		name  string
		apply func(int) *ogm.ChainHandle
	}{
		{"skip", handle.Skip},
		{"limit", handle.Limit},
	} {
		raw, present := c.GetQuery(param.name)
		if !present {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": param.name + " must be a non-negative integer"})
			return false
		}
		param.apply(n)
	}
	return true
}

// ginLogger logs each request through zap.
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
