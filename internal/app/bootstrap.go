package app

import (
	"fmt"
	"log"
	"strings"

	"jobtrail/internal/config"
	"jobtrail/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

func New(cfg config.Config, c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	f.Use(middleware.NewErrorMiddleware().Middleware())
	f.Use(middleware.NewAccessLogMiddleware(log.Default()).Middleware())

	c.Registry.Register(f)

	return &App{Fiber: f}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	container, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	app := New(cfg, container)
	return app, container.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
