package main

import (
	"github.com/joho/godotenv"

	appointmenthandler "docportal/internal/appointments/handler"
	appointmentrepo "docportal/internal/appointments/repository"
	appointmentservice "docportal/internal/appointments/service"
	"docportal/internal/auth"
	bookinghandler "docportal/internal/bookings/handler"
	bookingrepo "docportal/internal/bookings/repository"
	bookingservice "docportal/internal/bookings/service"
	bookingvalidator "docportal/internal/bookings/validator"
	doctorhandler "docportal/internal/doctors/handler"
	doctorrepo "docportal/internal/doctors/repository"
	doctorservice "docportal/internal/doctors/service"
	userhandler "docportal/internal/users/handler"
	userrepo "docportal/internal/users/repository"
	userservice "docportal/internal/users/service"
	"docportal/pkg/app"
	"docportal/pkg/config"
	"docportal/pkg/kafka"
)

const ServiceName = "portal"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	producer := initProducer(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	cfg.Log.Info("Starting Doctors Portal service")

	// Repositories share the one store connection held by the config.
	userRepo := userrepo.NewMongoUserRepository(cfg)
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	appointmentRepo := appointmentrepo.NewMongoAppointmentOptionRepository(cfg)
	doctorRepo := doctorrepo.NewMongoDoctorRepository(cfg)

	userService := userservice.NewUserService(userRepo, cfg)
	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		producer,
		cfg,
	)
	appointmentService := appointmentservice.NewAppointmentService(appointmentRepo, bookingRepo, cfg)
	doctorService := doctorservice.NewDoctorService(doctorRepo, cfg)

	tokens := auth.NewTokenManager(cfg.AccessTokenSecret, cfg.AccessTokenTTL)

	// Privileged routes verify the credential before the role is read.
	adminGate := auth.Chain(auth.Identity(tokens), auth.AdminOnly(userService))

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		appointmenthandler.NewAppointmentHandler(appointmentService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		userhandler.NewUserHandler(userService, adminGate, cfg.Log),
		doctorhandler.NewDoctorHandler(doctorService, adminGate, cfg.Log),
		auth.NewTokenHandler(tokens, userRepo, cfg.Log),
	)
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, booking events disabled")
		return nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaBookingTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.KafkaBookingTopic)
	return producer
}
