package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/JaimeStill/redline/internal/prompts"
	"github.com/JaimeStill/redline/pkg/formatting"
)

const (
	EnvAnalysisChunkSize  = "REDLINE_ANALYSIS_CHUNK_SIZE"
	EnvAnalysisEmbedLimit = "REDLINE_ANALYSIS_EMBED_LIMIT"
	EnvAnalysisLanguage   = "REDLINE_ANALYSIS_LANGUAGE"
	EnvAnalysisModel      = "REDLINE_ANALYSIS_MODEL"
	EnvAnalysisRecordKeys = "REDLINE_ANALYSIS_RECORD_KEYS"
	EnvAnalysisRulesFile  = "REDLINE_ANALYSIS_RULES_FILE"
)

// DefaultChunkSize is the chunk size bound in characters.
const DefaultChunkSize = 100_000

// AnalysisConfig holds workflow parameters. ChunkSize and EmbedLimit are
// independent bounds: chunks are cut at ChunkSize, and each prompt embeds at
// most EmbedLimit characters of its chunk.
type AnalysisConfig struct {
	ChunkSize  int      `toml:"chunk_size"`
	EmbedLimit int      `toml:"embed_limit"`
	Language   string   `toml:"language"`
	Model      string   `toml:"model"`
	RecordKeys []string `toml:"record_keys"`
	RulesFile  string   `toml:"rules_file"`
}

// RecordKey returns the key the output contract asks the model to use.
func (c *AnalysisConfig) RecordKey() string {
	if len(c.RecordKeys) == 0 {
		return prompts.DefaultRecordKey
	}
	return c.RecordKeys[0]
}

// Rules loads the rule table from RulesFile, or the built-in table when
// no file is configured.
func (c *AnalysisConfig) Rules() ([]prompts.RuleSpec, error) {
	return prompts.LoadRules(c.RulesFile)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AnalysisConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	if overlay.ChunkSize != 0 {
		c.ChunkSize = overlay.ChunkSize
	}
	if overlay.EmbedLimit != 0 {
		c.EmbedLimit = overlay.EmbedLimit
	}
	if overlay.Language != "" {
		c.Language = overlay.Language
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.RecordKeys != nil {
		c.RecordKeys = overlay.RecordKeys
	}
	if overlay.RulesFile != "" {
		c.RulesFile = overlay.RulesFile
	}
}

func (c *AnalysisConfig) loadDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.EmbedLimit == 0 {
		c.EmbedLimit = prompts.MaxEmbeddedChars
	}
	if c.Language == "" {
		c.Language = prompts.DefaultLanguage
	}
	if c.Model == "" {
		c.Model = "default"
	}
	if len(c.RecordKeys) == 0 {
		c.RecordKeys = append([]string(nil), formatting.DefaultRecordKeys...)
	}
}

func (c *AnalysisConfig) loadEnv() {
	if v := os.Getenv(EnvAnalysisChunkSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ChunkSize = n
		}
	}
	if v := os.Getenv(EnvAnalysisEmbedLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.EmbedLimit = n
		}
	}
	if v := os.Getenv(EnvAnalysisLanguage); v != "" {
		c.Language = v
	}
	if v := os.Getenv(EnvAnalysisModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvAnalysisRulesFile); v != "" {
		c.RulesFile = v
	}
	if v := os.Getenv(EnvAnalysisRecordKeys); v != "" {
		var keys []string
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) > 0 {
			c.RecordKeys = keys
		}
	}
}

func (c *AnalysisConfig) validate() error {
	if c.ChunkSize < 1 {
		return fmt.Errorf("invalid chunk_size: %d", c.ChunkSize)
	}
	if c.EmbedLimit < 1 {
		return fmt.Errorf("invalid embed_limit: %d", c.EmbedLimit)
	}
	if c.EmbedLimit > c.ChunkSize {
		return fmt.Errorf("embed_limit %d exceeds chunk_size %d", c.EmbedLimit, c.ChunkSize)
	}
	for _, k := range c.RecordKeys {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("record_keys must not contain empty keys")
		}
	}
	return nil
}
