package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/wechatgpt/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"WECHATGPT_RUNTIME_PATH" envDefault:".wechatgpt"`

	// Transport flags
	EnableWeChat   bool `env:"ENABLE_WECHAT" envDefault:"true"`
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`

	// Context window construction
	CostBudget int           `env:"COST_BUDGET" envDefault:"1024"`
	MaxGap     time.Duration `env:"MAX_GAP" envDefault:"30m"`
	MaxCount   int           `env:"MAX_COUNT" envDefault:"50"`

	// CostMetric selects the weight estimator: "chars" or "tokens".
	CostMetric string `env:"COST_METRIC" envDefault:"chars"`

	// ReplyDeadline bounds the synchronous reply; answers that miss it are
	// persisted in the background and retrievable via the replay token.
	ReplyDeadline time.Duration `env:"REPLY_DEADLINE" envDefault:"4s"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "wechatgpt.db")
}
