package config

import (
	"errors"

	"github.com/okian/triplog/internal/domain/model"
)

// Sentinel error kinds for this package.
var (
	// ErrInvalidConfig is model.ErrConfig, so callers can match either.
	ErrInvalidConfig = model.ErrConfig
	ErrLoadConfig    = errors.New("load config failed")
)
