package ginserver

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"milhouse/internal/infra/config"
	"milhouse/internal/infra/obs"
)

type PropertyHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type CatalogHTTP interface {
	Search(c *gin.Context)
	GeoJSON(c *gin.Context)
}

type LoanHTTP interface {
	Quote(c *gin.Context)
	Banks(c *gin.Context)
}

type MediaHTTP interface {
	Upload(c *gin.Context)
	Image(c *gin.Context)
}

type HeroHTTP interface {
	Get(c *gin.Context)
	Save(c *gin.Context)
	UploadImage(c *gin.Context)
}

type ContactHTTP interface {
	Submit(c *gin.Context)
	List(c *gin.Context)
}

type Handlers struct {
	Properties PropertyHTTP
	Catalog    CatalogHTTP
	Loans      LoanHTTP
	Media      MediaHTTP
	Hero       HeroHTTP
	Contacts   ContactHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the engine without touching the global gin mode.
func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	router.MaxMultipartMemory = 32 << 20

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)
	router.GET("/health", health.Livez)

	api := router.Group("/api")
	if h.Properties != nil {
		api.GET("/properties", h.Properties.List)
		api.POST("/properties", h.Properties.Create)
		api.GET("/properties/:id", h.Properties.Get)
		api.PUT("/properties/:id", h.Properties.Update)
		api.DELETE("/properties/:id", h.Properties.Delete)
	}
	if h.Catalog != nil {
		api.GET("/catalog", h.Catalog.Search)
		api.GET("/properties.geojson", h.Catalog.GeoJSON)
	}
	if h.Loans != nil {
		api.POST("/loans/quote", h.Loans.Quote)
		api.GET("/loans/banks", h.Loans.Banks)
	}
	if h.Media != nil {
		api.POST("/uploads", h.Media.Upload)
		api.GET("/images/:id", h.Media.Image)
	}
	if h.Hero != nil {
		api.GET("/hero/propiedades", h.Hero.Get)
		api.POST("/hero/propiedades", h.Hero.Save)
		api.POST("/hero/propiedades/image", h.Hero.UploadImage)
	}
	if h.Contacts != nil {
		api.POST("/contacts", h.Contacts.Submit)
		api.GET("/contacts", h.Contacts.List)
	}

	router.NoRoute(staticFallback(cfg.StaticDir))
	return router
}

// staticFallback serves the front-end bundle from dir for non-API GETs.
// Directories resolve to their index.html.
func staticFallback(dir string) gin.HandlerFunc {
	dir = strings.TrimSpace(dir)
	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		if dir == "" || strings.HasPrefix(reqPath, "/api/") || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		clean := path.Clean("/" + reqPath)
		full := filepath.Join(dir, filepath.FromSlash(clean))
		info, err := os.Stat(full)
		if err == nil && info.IsDir() {
			full = filepath.Join(full, "index.html")
			info, err = os.Stat(full)
		}
		if err != nil || info.IsDir() {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(full)
	}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
