package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sqio-health/or-booking-backend/internal/announcement"
	annHttp "github.com/sqio-health/or-booking-backend/internal/announcement/http"
	"github.com/sqio-health/or-booking-backend/internal/auth"
	"github.com/sqio-health/or-booking-backend/internal/booking"
	bookingHttp "github.com/sqio-health/or-booking-backend/internal/booking/http"
	"github.com/sqio-health/or-booking-backend/internal/clinician"
	clinicianHttp "github.com/sqio-health/or-booking-backend/internal/clinician/http"
	"github.com/sqio-health/or-booking-backend/internal/file"
	fileHttp "github.com/sqio-health/or-booking-backend/internal/file/http"
	"github.com/sqio-health/or-booking-backend/internal/room"
	roomHttp "github.com/sqio-health/or-booking-backend/internal/room/http"
)

// Config collects the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string // comma-separated allowed origins for production

	ClinicianService clinician.Service
	RoomService      room.Service
	BookingService   booking.Service
	AnnService       announcement.Service
	FileService      file.Service

	JWTManager *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, Logger, Auth) and registers routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:8081", // Swagger
			"http://localhost:3000", // local frontend
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	clinicianHandler := clinicianHttp.NewHandler(cfg.ClinicianService, cfg.JWTManager)
	roomHandler := roomHttp.NewHandler(cfg.RoomService, cfg.BookingService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	annHandler := annHttp.NewHandler(cfg.AnnService)
	fileHandler := fileHttp.NewHandler(cfg.FileService)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		clinicianHttp.RegisterRoutes(v1, clinicianHandler, authMiddleware)
		roomHttp.RegisterRoutes(v1, roomHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		annHttp.RegisterRoutes(v1, annHandler, authMiddleware)
		fileHttp.RegisterRoutes(v1, fileHandler, authMiddleware)
	}

	return r
}
