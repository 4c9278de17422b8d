package config

import (
	"errors"
	"fmt"
	"regexp"
)

// ValidationError reports one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// slugPattern keeps role slugs short enough for 64-byte callback payloads.
var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,31}$`)

var (
	logLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	logFormats = map[string]bool{"json": true, "text": true}
	backends   = map[string]bool{"file": true, "sqlite": true, "mongo": true, "redis": true, "amqp": true}
)

// Validate checks c and returns every problem found, joined.
func (c Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.CommonQuestions == "" {
		add("common_questions", "is required")
	}
	if c.BlockOneCount < 0 {
		add("block_one_count", "must not be negative, got %d", c.BlockOneCount)
	}
	if len(c.Roles) == 0 {
		add("roles", "at least one role is required")
	}
	seen := make(map[string]bool, len(c.Roles))
	for i, r := range c.Roles {
		field := fmt.Sprintf("roles[%d]", i)
		switch {
		case !slugPattern.MatchString(r.Slug):
			add(field+".slug", "%q must be lowercase letters, digits, '-' or '_' (max 32)", r.Slug)
		case seen[r.Slug]:
			add(field+".slug", "duplicate slug %q", r.Slug)
		}
		seen[r.Slug] = true
		if r.Path == "" {
			add(field+".path", "is required")
		}
		if r.BlockTwoCount < 0 {
			add(field+".block_two_count", "must not be negative, got %d", r.BlockTwoCount)
		}
	}

	if !logLevels[c.LogLevel] {
		add("log_level", "unknown level %q", c.LogLevel)
	}
	if !logFormats[c.LogFormat] {
		add("log_format", "unknown format %q", c.LogFormat)
	}

	for _, b := range c.Results.Backends {
		if !backends[b] {
			add("results.backends", "unknown backend %q", b)
		}
	}
	if c.HasBackend("file") && c.Results.FilePath == "" {
		add("results.file_path", "is required for the file backend")
	}
	if c.HasBackend("mongo") && c.Results.Mongo.URI == "" {
		add("results.mongo.uri", "is required for the mongo backend")
	}
	if c.HasBackend("redis") && c.Results.Redis.Addr == "" {
		add("results.redis.addr", "is required for the redis backend")
	}
	if c.HasBackend("amqp") && c.Results.AMQP.URL == "" {
		add("results.amqp.url", "is required for the amqp backend")
	}

	return errors.Join(errs...)
}
