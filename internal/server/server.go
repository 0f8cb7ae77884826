package server

import (
	"scholarsync/internal/config"
	"scholarsync/internal/handlers"
	"scholarsync/internal/logger"
	"scholarsync/internal/middleware"
	"scholarsync/internal/models"
	"scholarsync/internal/repositories"
	"scholarsync/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Options carries the dependencies of the HTTP application.
type Options struct {
	Config *config.Config
	DB     *gorm.DB
	Logger zerolog.Logger
	// Publisher receives student events. Nil disables publishing.
	Publisher services.StudentEventPublisher
}

// NewApp builds the Fiber application with every route registered.
func NewApp(opts Options) *fiber.App {
	cfg := opts.Config

	app := fiber.New(fiber.Config{
		AppName:               "Scholar Sync",
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.RequestLogger(opts.Logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
	}))

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(opts.DB)
	studentRepo := repositories.NewGORMStudentRepository(opts.DB)

	// --- Services ---
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpire)
	authService := services.NewAuthService(userRepo, tokens)
	studentService := services.NewStudentService(studentRepo, opts.Publisher)

	// --- Handlers ---
	cookie := middleware.SessionCookie{Secure: cfg.IsProduction(), MaxAge: tokens.Lifetime()}
	session := middleware.SessionRequired(authService, cookie)

	api := app.Group("/api")
	handlers.NewAuthHandler(authService, cookie).RegisterRoutes(api, session)

	students := api.Group("/students", session, middleware.RequireRoles(cookie, models.RoleFaculty, models.RoleAdmin))
	handlers.NewStudentHandler(studentService).RegisterRoutes(students)

	handlers.NewHealthHandler(opts.DB).RegisterRoutes(app)

	app.Use(handlers.NotFound)
	return app
}
