package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/wechatgpt/internal/config"
	"github.com/sandevgo/wechatgpt/internal/providers/llm"
	"github.com/sandevgo/wechatgpt/internal/service/chat"
	"github.com/sandevgo/wechatgpt/internal/service/command"
	"github.com/sandevgo/wechatgpt/internal/storage/sqlite"
	"github.com/sandevgo/wechatgpt/internal/transport/telegram"
	"github.com/sandevgo/wechatgpt/internal/transport/wechat"
	"github.com/sandevgo/wechatgpt/pkg/log"
	"github.com/sandevgo/wechatgpt/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	if err := initEnv(); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	appCfg := config.NewAppConfig(ctx)
	openaiCfg := config.NewOpenAIConfig(ctx)

	// Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	eventsRepo := sqlite.NewEventsRepo(db)
	messagesRepo := sqlite.NewMessagesRepo(db)

	// Completion provider
	completer := llm.NewOpenAI(openaiCfg)

	// Cost metric
	var cost chat.CostEstimator = chat.CharCost{}
	if appCfg.CostMetric == "tokens" {
		tokenCost, err := chat.NewTokenCost(openaiCfg.Model)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize token cost estimator")
		}
		cost = tokenCost
	}

	// Core pipeline
	window := chat.NewWindowBuilder(messagesRepo, chat.WindowConfig{
		CostBudget: appCfg.CostBudget,
		MaxGap:     appCfg.MaxGap,
		MaxCount:   appCfg.MaxCount,
	})
	coordinator := chat.NewCoordinator(window, messagesRepo, completer, cost)
	services = append(services, srv.NewCleanup(func() error {
		// Let in-flight background pipelines finish their store writes.
		coordinator.Wait()
		return nil
	}))

	router := command.New(messagesRepo, command.NewCommands(messagesRepo))

	handler := chat.NewHandler(eventsRepo, messagesRepo, router, coordinator, appCfg.ReplyDeadline)

	// Transports
	if appCfg.EnableWeChat {
		wechatCfg := config.NewWeChatConfig(ctx)
		services = append(services, wechat.NewServer(ctx, wechatCfg, handler))
	}

	if appCfg.EnableTelegram {
		telegramCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, telegramCfg, handler)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	}

	return services
}

func initEnv() error {
	for _, path := range []string{".env", filepath.Join(config.GetRuntimePath(), ".env")} {
		if _, err := os.Stat(path); err == nil {
			return godotenv.Load(path)
		}
	}
	return nil
}
