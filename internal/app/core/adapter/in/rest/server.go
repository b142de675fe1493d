package rest

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cardbank/ledger/internal/app/core/usecase"
)

// Server is the inbound REST adapter. It collects raw posting input, hands
// it to the core, and translates domain errors into protocol responses.
type Server struct {
	app  *fiber.App
	core *usecase.CoreUseCase
	log  *zap.Logger
}

func NewServer(core *usecase.CoreUseCase, log *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "card-ledger",
		DisableStartupMessage: true,
	})

	s := &Server{
		app:  app,
		core: core,
		log:  log,
	}

	app.Use(requestLogger(log))

	app.Get("/health", s.health)

	v1 := app.Group("/v1")
	v1.Post("/transactions", s.createTransaction)
	v1.Get("/transactions/:id", s.getTransaction)
	v1.Get("/transactions", s.listTransactions)
	v1.Get("/cards/:number", s.getCard)

	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests within the given timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// requestLogger logs one structured line per request.
func requestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info("http request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("took", time.Since(start)),
		)
		return err
	}
}
