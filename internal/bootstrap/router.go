package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fundforge/crowdfund-backend/config"
	httpapi "github.com/fundforge/crowdfund-backend/internal/api/http"
	"github.com/fundforge/crowdfund-backend/internal/auth"
	"github.com/fundforge/crowdfund-backend/internal/ledger/cache"
	ledgerhttp "github.com/fundforge/crowdfund-backend/internal/ledger/http"
	"github.com/fundforge/crowdfund-backend/internal/ledger/repository"
	"github.com/fundforge/crowdfund-backend/internal/ledger/service"
	"github.com/fundforge/crowdfund-backend/internal/stats"
	"github.com/fundforge/crowdfund-backend/internal/users"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Pool        *pgxpool.Pool
	SQL         *sql.DB
	Redis       *redis.Client // nil runs without the snapshot cache
	Ledger      config.LedgerConfig
	Log         zerolog.Logger
}

// SetGinMode silences gin's debug route dump outside development.
func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-User-Id"},
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Pool, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	store := repository.NewStore(dep.SQL, dep.Log)
	userRepo := users.NewRepo(dep.SQL)

	var snapCache service.SnapshotCache
	if dep.Redis != nil {
		snapCache = cache.NewSnapshotCache(dep.Redis, dep.Ledger.SnapshotTTL, dep.Log)
	}

	limits := service.Limits{
		AmountMin: dep.Ledger.AmountMin,
		AmountMax: dep.Ledger.AmountMax,
		GoalMin:   dep.Ledger.GoalMin,
		GoalMax:   dep.Ledger.GoalMax,
	}
	svc := service.NewLedgerService(store, userRepo, snapCache, limits, dep.Ledger.OpTimeout, dep.Log)

	withUser := auth.WithUser(userRepo)

	ledgerHandler := ledgerhttp.NewHandler(svc)
	ledgerHandler.Register(api.Group("/projects"), withUser)
	ledgerHandler.RegisterCategories(api.Group("/categories"))

	statsHandler := stats.NewHandler(stats.NewRepo(dep.SQL))
	statsHandler.Register(api.Group("/stats"))

	usersGroup := api.Group("/users")
	usersHandler := users.NewHandler(userRepo)
	usersHandler.Register(usersGroup, withUser)
	ledgerHandler.RegisterMine(usersGroup, withUser)

	return r
}
