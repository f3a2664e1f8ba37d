package main

import (
	"context"
	"os"

	"github.com/sandevgo/wechatgpt/internal/config"
	"github.com/sandevgo/wechatgpt/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "wechatgpt",
	Short: "WeChatGPT — an official-account ChatGPT relay",
	Long:  `WeChatGPT answers WeChat official-account messages with a language model, within the platform's reply deadline.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
