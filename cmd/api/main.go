package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"fieldbook/internal/config"
	"fieldbook/internal/database"
	"fieldbook/internal/middleware"
	"fieldbook/internal/modules/booking"
	"fieldbook/internal/modules/payment"
	"fieldbook/internal/notification"
	jwtsvc "fieldbook/internal/pkg/jwt"
	"fieldbook/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg, err := config.LoadRuntimeConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	bookingRepo := repository.NewBookingRepository(db)
	fieldRepo := repository.NewFieldRepository(db)
	teamRepo := repository.NewTeamRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	notifs := notification.NewLogSender()

	bookingService := booking.NewService(bookingRepo, fieldRepo, teamRepo, notifs)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(bookingRepo)
	paymentHandler := payment.NewHandler(paymentService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
