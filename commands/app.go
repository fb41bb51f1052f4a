package commands

import (
	"context"
	"eduverse/cache"
	authController "eduverse/controllers/auth"
	controllers "eduverse/controllers/course"
	quizController "eduverse/controllers/quiz"
	superAdminController "eduverse/controllers/superAdmin"
	userController "eduverse/controllers/userControllers"
	walletController "eduverse/controllers/wallet"
	"eduverse/config"
	"eduverse/enrollment"
	"eduverse/media"
	"eduverse/middleware"
	"eduverse/notify"
	"eduverse/payments"
	"eduverse/pricing"
	"eduverse/quiz"
	"eduverse/routers"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const requestTimeout = 5 * time.Second

// Deps are the collaborators the HTTP app is assembled from. Redis is
// optional; without it leaderboards are read straight from the database.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Notifier notify.Notifier
	SMS      *notify.SMSSender
	Gateway  payments.Gateway
	Media    media.Store
}

// NewApp wires engines, controllers and routes into a fiber app.
func NewApp(d Deps) *fiber.App {
	cfg := d.Config

	app := fiber.New(fiber.Config{
		AppName:      "eduverse",
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		BodyLimit:    512 << 20,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${ip} ${method} ${path} ${status} ${latency}\n",
	}))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many requests!", nil)
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})

	app.Static("/uploads", cfg.UploadDir)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	var lbCache quiz.LeaderboardCache
	if d.Redis != nil {
		lbCache = cache.NewLeaderboard(d.Redis, cfg.RedisTTL(10*time.Minute))
	}

	pricingCfg := pricing.NewConfig(cfg.Pricing.MarkupPercent, cfg.Pricing.CourseDiscountPercent)
	enrollments := enrollment.NewEngine(d.DB, d.Notifier)
	quizzes := quiz.NewEngine(d.DB, quiz.Config{Cap: cfg.LeaderboardCap}, lbCache)
	paymentSvc := payments.NewService(d.DB, d.Gateway, d.Notifier, cfg.PointsPerCurrencyUnit)

	routers.Setup(app, routers.Controllers{
		Auth:   authController.New(d.DB, d.Notifier, d.SMS, cfg.SaltRound),
		User:   userController.New(d.DB, enrollments),
		Course: controllers.New(d.DB, pricingCfg, d.Media, enrollments),
		Quiz:   quizController.New(quizzes),
		Wallet: walletController.New(d.DB, paymentSvc),
		Admin:  superAdminController.New(d.DB, paymentSvc, quizzes),
	})

	app.Use(func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Route not found!", nil)
	})
	return app
}

// errorHandler keeps the response envelope for errors fiber raises itself,
// such as oversized bodies or recovered panics.
func errorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return middleware.JsonResponse(c, e.Code, false, e.Message, nil)
	}
	return middleware.ErrorResponse(c, err)
}

// newNotifier picks SendGrid when an API key is set, then SMTP, and falls
// back to logging messages.
func newNotifier(cfg *config.Config) notify.Notifier {
	switch {
	case cfg.SendgridAPIKey != "":
		return notify.NewSendGrid(cfg.SendgridAPIKey, "Eduverse", cfg.EmailSender)
	case cfg.EmailSender != "" && cfg.Password != "":
		return notify.NewSMTP(cfg.EmailSender, cfg.Password, "Eduverse")
	}
	return notify.Log{}
}
