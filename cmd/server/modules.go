package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/redline/internal/api"
	"github.com/JaimeStill/redline/internal/config"
	"github.com/JaimeStill/redline/internal/infrastructure"
	"github.com/JaimeStill/redline/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) error {
	return router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure, version string) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		writeStatus(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	return router
}

func writeStatus(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
