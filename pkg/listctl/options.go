package listctl

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Defaults applied to a zero Config.
const (
	DefaultPageSize = 10
	DefaultDebounce = 500 * time.Millisecond
)

// Config is the initial state of a controller. SearchTerm and Page let a caller
// restore a previously saved query; they default to "" and 1.
type Config struct {
	PageSize   int `validate:"min=0"`
	Filters    map[string]string
	Debounce   time.Duration `validate:"min=0"`
	SearchTerm string
	Page       int `validate:"min=0"`
}

var configValidator = validator.New()

func (cfg Config) normalize() (Config, error) {
	if err := configValidator.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	for key := range cfg.Filters {
		if key == "" {
			return cfg, fmt.Errorf("%w: empty filter key", ErrInvalidArgument)
		}
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Page == 0 {
		cfg.Page = 1
	}
	cfg.Filters = maps.Clone(cfg.Filters)
	if cfg.Filters == nil {
		cfg.Filters = map[string]string{}
	}
	return cfg, nil
}

// Option customises a controller.
type Option func(*options)

type options struct {
	logger *logrus.Entry
	ctx    context.Context
}

// WithLogger sets the entry used for controller logs.
func WithLogger(entry *logrus.Entry) Option {
	return func(o *options) {
		if entry != nil {
			o.logger = entry
		}
	}
}

// WithContext sets the parent context of every fetch. Values on it (such as
// credentials) reach the Fetcher; cancelling it aborts in-flight fetches.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

func defaultOptions() options {
	return options{
		logger: logrus.StandardLogger().WithField("component", "listctl"),
		ctx:    context.Background(),
	}
}
