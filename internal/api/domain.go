package api

import (
	"github.com/JaimeStill/redline/internal/analyses"
	"github.com/JaimeStill/redline/internal/prompts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analyses analyses.System
	Rules    *prompts.Handler
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, recordKey string) *Domain {
	return &Domain{
		Analyses: analyses.New(runtime.Cache, runtime.Workflow, runtime.Logger),
		Rules:    prompts.NewHandler(runtime.Workflow.Rules, recordKey, runtime.Logger),
	}
}
