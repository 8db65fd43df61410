package main

import (
	"net/http"
	"time"

	"github.com/JaimeStill/redline/internal/config"
	"github.com/JaimeStill/redline/internal/infrastructure"
)

type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	router  http.Handler
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	return newServer(cfg, infrastructure.New(cfg))
}

func newServer(cfg *config.Config, infra *infrastructure.Infrastructure) (*Server, error) {
	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra, cfg.Version)
	if err := modules.Mount(router); err != nil {
		return nil, err
	}

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"modules", router.Prefixes(),
	)

	return &Server{
		infra:   infra,
		modules: modules,
		router:  router,
		http:    newHTTPServer(cfg, router, infra.Logger),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
			s.infra.Logger.Error("startup failed", "error", err)
			return
		}
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
