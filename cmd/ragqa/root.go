package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/fyerfyer/rag-pipeline/api/middleware"
	"github.com/fyerfyer/rag-pipeline/config"
	"github.com/fyerfyer/rag-pipeline/internal/database"
	"github.com/fyerfyer/rag-pipeline/internal/repository"
	"github.com/fyerfyer/rag-pipeline/internal/services"
)

// rootOptions 全局命令行参数
type rootOptions struct {
	configFile string
	envFiles   []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "ragqa",
		Short:        "Multimodal document question answering over a local vector store",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to an optional config file (yaml/json/toml)")
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "env files to load before reading the environment (default .env)")

	cmd.AddCommand(
		newServeCmd(opts),
		newIngestCmd(opts),
		newAskCmd(opts),
		newFormatsCmd(opts),
	)
	return cmd
}

// app 命令执行期间共享的组件
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	db       *gorm.DB
	repo     repository.IngestionRepository
	pipeline *services.Pipeline
}

// loadConfig 加载配置并初始化日志
func (o *rootOptions) loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(o.configFile, o.envFiles...)
	if err != nil {
		return nil, nil, err
	}

	logger, err := middleware.ConfigureLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	return cfg, logger, nil
}

// newApp 校验配置后初始化数据库和流水线
// 失败时返回带阶段信息的错误
func (o *rootOptions) newApp(ctx context.Context) (*app, error) {
	cfg, logger, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	// 打开数据库之前先校验，缺少密钥时不创建任何存储文件
	if err := cfg.Validate(); err != nil {
		return nil, &services.InitError{Stage: services.StateValidatingConfig, Err: err}
	}

	dbCfg := database.DefaultConfig()
	dbCfg.DSN = cfg.Database.DSN
	db, err := database.Setup(dbCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	repo := repository.NewIngestionRepository(db)

	pipeline, err := services.NewPipeline(ctx, cfg, services.DefaultDependencies(db, logger),
		services.WithLogger(logger),
		services.WithIngestionRepository(repo),
	)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		repo:     repo,
		pipeline: pipeline,
	}, nil
}

// Close 释放流水线和数据库
func (a *app) Close() {
	if err := a.pipeline.Close(); err != nil {
		a.logger.WithError(err).Warn("Failed to close pipeline")
	}
	if err := database.Close(a.db); err != nil {
		a.logger.WithError(err).Warn("Failed to close database")
	}
}
