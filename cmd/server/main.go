package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"parkhaus/internal/api"
	"parkhaus/internal/auth"
	"parkhaus/internal/config"
	"parkhaus/internal/repository"
	"parkhaus/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	reservationRepo := repository.NewReservationRepository(db)
	houseRepo := repository.NewHouseRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	jobRepo := repository.NewJobRepository(db)

	sender := service.NewSenderService()
	reservationSvc := service.NewReservationService(reservationRepo, houseRepo, accountRepo, sender, cfg.GraceMinutes, cfg.EndingSoonMinutes)
	houseSvc := service.NewHouseService(houseRepo, reservationRepo)
	statsSvc := service.NewStatsService(reservationRepo, houseRepo)
	paymentSvc := service.NewPaymentService(reservationRepo, houseRepo)
	authSvc := service.NewAuthService(accountRepo, cfg.JWTSecret)
	jobSvc := service.NewJobService(jobRepo, cfg.GraceMinutes, cfg.CancelledRetention)

	reservationHandler := api.NewReservationHandler(reservationSvc, paymentSvc)
	houseHandler := api.NewHouseHandler(houseSvc)
	statsHandler := api.NewStatsHandler(statsSvc)
	authHandler := api.NewAuthHandler(authSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Authenticated endpoints (either role)
	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(auth.Middleware(cfg.JWTSecret))
	authed.HandleFunc("/houses", houseHandler.List).Methods("GET")
	authed.HandleFunc("/houses/availability", houseHandler.Availability).Methods("GET")
	authed.HandleFunc("/houses/{id}", houseHandler.Get).Methods("GET")
	authed.HandleFunc("/houses/{id}/slots", houseHandler.Slots).Methods("GET")
	authed.HandleFunc("/slots/{id}/status", reservationHandler.SlotStatus).Methods("GET")
	authed.HandleFunc("/reservations/{id}/phase", reservationHandler.Phase).Methods("GET")
	authed.HandleFunc("/reservations/{id}/quote", reservationHandler.Quote).Methods("GET")

	// Driver endpoints
	driver := authed.NewRoute().Subrouter()
	driver.Use(auth.RequireRole(auth.RoleDriver))
	driver.HandleFunc("/reservations", reservationHandler.Create).Methods("POST")
	driver.HandleFunc("/reservations/my-active", reservationHandler.MyActive).Methods("GET")

	// Cancel is open to both roles; the service checks ownership.
	authed.HandleFunc("/reservations/{id}", reservationHandler.Cancel).Methods("DELETE")
	authed.HandleFunc("/reservations/{id}/prolong", reservationHandler.Prolong).Methods("POST")

	// Admin endpoints
	admin := authed.NewRoute().Subrouter()
	admin.Use(auth.RequireRole(auth.RoleAdmin))
	admin.HandleFunc("/houses", houseHandler.Create).Methods("POST")
	admin.HandleFunc("/houses/{id}", houseHandler.Update).Methods("PUT")
	admin.HandleFunc("/houses/{id}", houseHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/reservations", reservationHandler.ListForAdmin).Methods("GET")
	admin.HandleFunc("/reservations/{id}/restore", reservationHandler.Restore).Methods("PATCH")
	admin.HandleFunc("/houses/{id}/stats", statsHandler.Statistics).Methods("GET")
	admin.HandleFunc("/houses/{id}/usage", statsHandler.Usage).Methods("GET")

	c := cron.New()
	c.AddFunc("@every 5m", func() {
		if err := jobSvc.SweepExpired(); err != nil {
			log.Printf("Error in expired reservation sweep: %v", err)
		}
	})
	c.AddFunc("@daily", func() {
		if err := jobSvc.PurgeCancelled(); err != nil {
			log.Printf("Error purging cancelled reservations: %v", err)
		}
	})
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler(handlers.LoggingHandler(os.Stdout, r))))
}
