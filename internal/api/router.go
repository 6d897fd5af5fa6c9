package api

import (
	"net/http"

	"bess-colocation/internal/api/handlers"
	"bess-colocation/internal/api/middleware"
	"bess-colocation/internal/store"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the full HTTP surface against the given run store.
func NewRouter(runs store.RunStore) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	compareHandler := handlers.NewCompareHandler(runs)
	scenarioHandler := handlers.NewScenarioHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/compare", compareHandler.RunCompare)
		v1.GET("/runs", compareHandler.ListRuns)
		v1.GET("/runs/:id", compareHandler.GetRun)
		v1.GET("/scenarios", scenarioHandler.ListScenarios)
	}

	return router
}
