package config

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Validate checks the fields every command needs plus the settings of
// features that are switched on.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if err := c.ValidateIrys(); err != nil {
		return err
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'text' or 'json', got '%s'", c.Log.Format)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}

	// Model-backed refinement runs in the worker.
	if r := c.Analysis.Refine; r.Enabled {
		switch r.Provider {
		case "openai":
			if c.OpenaiApiKey == "" {
				return errors.New("openai_api_key is required when analysis.refine.provider is openai")
			}
		case "gemini":
			if c.GoogleApiKey == "" {
				return errors.New("google_api_key is required when analysis.refine.provider is gemini")
			}
		default:
			return fmt.Errorf("analysis.refine.provider must be 'openai' or 'gemini', got '%s'", r.Provider)
		}
		if r.Model == "" {
			return errors.New("analysis.refine.model is required when refinement is enabled")
		}
		if c.Redis.Address == "" {
			return errors.New("redis.address is required when refinement is enabled")
		}
	}

	if a := c.Archive; a.Enabled {
		if a.Endpoint == "" {
			return errors.New("archive.endpoint is required when the archive is enabled")
		}
		if a.Bucket == "" {
			return errors.New("archive.bucket is required when the archive is enabled")
		}
		if a.AccessKeyID == "" || a.SecretAccessKey == "" {
			return errors.New("archive.access_key_id and archive.secret_access_key are required when the archive is enabled")
		}
	}

	return nil
}

// ValidateIrys checks only the settings the upload client reads.
func (c *Config) ValidateIrys() error {
	if c.Irys.Timeout < 0 {
		return errors.New("irys.timeout must not be negative")
	}
	return nil
}

// ValidateWorker checks the settings the background worker needs.
func (c *Config) ValidateWorker() error {
	if c.Redis.Address == "" {
		return errors.New("redis.address is required")
	}
	if c.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be a positive integer")
	}
	if len(c.Worker.Queues) == 0 {
		return errors.New("worker.queues must define at least one queue")
	}
	for name, priority := range c.Worker.Queues {
		if name == "" {
			return errors.New("worker.queues contains an empty queue name")
		}
		if priority <= 0 {
			return fmt.Errorf("worker.queues priority for queue '%s' must be positive", name)
		}
	}
	return nil
}
