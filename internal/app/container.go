package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sqio-health/or-booking-backend/internal/announcement"
	"github.com/sqio-health/or-booking-backend/internal/api"
	"github.com/sqio-health/or-booking-backend/internal/auth"
	"github.com/sqio-health/or-booking-backend/internal/booking"
	"github.com/sqio-health/or-booking-backend/internal/clinician"
	"github.com/sqio-health/or-booking-backend/internal/file"
	"github.com/sqio-health/or-booking-backend/internal/pkg/clock"
	"github.com/sqio-health/or-booking-backend/internal/pkg/storage"
	"github.com/sqio-health/or-booking-backend/internal/room"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	StoragePath  string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	clk := clock.NewSystem()

	localStorage, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to init file storage: %w", err)
	}

	// Clinician Module
	clinicianRepo := clinician.NewPgxRepository(cfg.DBPool)
	clinicianService := clinician.NewService(clinicianRepo, passwordHasher)

	// Room Module
	roomRepo := room.NewPgxRepository(cfg.DBPool)
	roomService := room.NewService(roomRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, roomService, clk)

	// Announcement Module
	annRepo := announcement.NewPgxRepository(cfg.DBPool)
	annService := announcement.NewService(annRepo)

	// File Module
	fileRepo := file.NewRepository(cfg.DBPool)
	fileService := file.NewService(fileRepo, localStorage)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:     cfg.IsProduction,
		ProdOrigins:      cfg.ProdOrigins,
		ClinicianService: clinicianService,
		RoomService:      roomService,
		BookingService:   bookingService,
		AnnService:       annService,
		FileService:      fileService,
		JWTManager:       jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
