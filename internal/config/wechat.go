package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/wechatgpt/pkg/log"
)

type WeChatConfig struct {
	// Token is the shared secret the platform uses for the signature
	// handshake on webhook verification.
	Token          string `env:"WECHAT_TOKEN,required,notEmpty"`
	AppID          string `env:"WECHAT_APP_ID"`
	AppSecret      string `env:"WECHAT_APP_SECRET"`
	EncodingAESKey string `env:"WECHAT_ENCODING_AES_KEY"`
	ListenAddr     string `env:"WECHAT_LISTEN_ADDR" envDefault:":8080"`
}

func NewWeChatConfig(ctx context.Context) *WeChatConfig {
	c := &WeChatConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse WeChat config")
	}
	return c
}
