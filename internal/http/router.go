// README: HTTP router registration.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hirebook/internal/http/handlers"
	"hirebook/internal/http/middleware"
	"hirebook/internal/modules/invoice"
)

type RouterDeps struct {
	Hires       handlers.HireService
	Quoter      handlers.Quoter
	Drivers     handlers.DriverService
	Geocoder    handlers.Geocoder
	Payee       invoice.Payee
	CORSOrigins []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())
	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  deps.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	api := r.Group("/api")

	hireHandler := handlers.NewHireHandler(deps.Hires, deps.Payee)
	api.POST("/hires", hireHandler.Create)
	api.GET("/hires", hireHandler.List)
	api.GET("/hires/numbers", hireHandler.Numbers)
	api.GET("/hires/next-number", hireHandler.NextNumber)
	api.GET("/hires/export.csv", hireHandler.ExportCSV)
	api.GET("/hires/:id", hireHandler.Get)
	api.PUT("/hires/:id", hireHandler.Update)
	api.PATCH("/hires/:id", hireHandler.Change)
	api.DELETE("/hires/:id", hireHandler.Delete)
	api.GET("/hires/:id/invoice.pdf", hireHandler.Invoice)

	fareHandler := handlers.NewFareHandler(deps.Quoter)
	api.POST("/fares/quote", fareHandler.Quote)

	driverHandler := handlers.NewDriverHandler(deps.Drivers)
	api.POST("/drivers", driverHandler.Create)
	api.GET("/drivers", driverHandler.List)
	api.GET("/drivers/export.csv", driverHandler.ExportCSV)
	api.GET("/drivers/:id", driverHandler.Get)
	api.PUT("/drivers/:id", driverHandler.Update)
	api.DELETE("/drivers/:id", driverHandler.Delete)

	geocodeHandler := handlers.NewGeocodeHandler(deps.Geocoder)
	api.GET("/geocode", geocodeHandler.Search)
	api.GET("/geocode/reverse", geocodeHandler.Reverse)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
