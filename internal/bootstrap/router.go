package bootstrap

import (
	"database/sql"
	"time"

	"github.com/craftwise/craftwise-backend/internal/analysis"
	httpapi "github.com/craftwise/craftwise-backend/internal/api/http"
	"github.com/craftwise/craftwise-backend/internal/api/http/middleware"
	"github.com/craftwise/craftwise-backend/internal/products"
	"github.com/craftwise/craftwise-backend/internal/projects"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	DevMode        bool
	DB             *sql.DB
	Orchestrator   *analysis.Orchestrator
	Searcher       *products.Searcher
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	api.Use(middleware.RequestIDMiddleware())

	analysis.Register(api, dep.Orchestrator, dep.DevMode)
	projects.Register(api, projects.NewRepo(dep.DB), dep.DevMode)
	products.Register(api, dep.Searcher, dep.DevMode)

	return r
}
