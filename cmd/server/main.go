package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	rest_adapter "github.com/cardbank/ledger/internal/app/core/adapter/in/rest"
	memory_adapter "github.com/cardbank/ledger/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/cardbank/ledger/internal/app/core/adapter/out/mysql"
	"github.com/cardbank/ledger/internal/app/core/usecase"
	"github.com/cardbank/ledger/pkg/logging"
	"github.com/cardbank/ledger/pkg/mysql"
	"github.com/cardbank/ledger/pkg/wal"
)

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LedgerConfig struct {
	// Backend: "mysql" posts directly against the database, "memory" serves
	// from RAM (seeded from MySQL at boot) with a WAL for durability.
	Backend string `yaml:"backend"`
	WALPath string `yaml:"wal_path"`
}

type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Ledger  LedgerConfig   `yaml:"ledger"`
	MySQL   mysql.Config   `yaml:"mysql"`
	Logging logging.Config `yaml:"logging"`
}

func main() {
	cfg := loadConfig()

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	dbClient, err := mysql.NewClient(cfg.MySQL)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer dbClient.Close()
	logger.Info("connected to mysql")

	ledgerRepo := mysql_adapter.NewMySQLLedger(dbClient)

	var usedLedger usecase.Ledger
	switch cfg.Ledger.Backend {
	case "mysql":
		usedLedger = ledgerRepo
	case "memory":
		accounts, err := ledgerRepo.LoadAllAccounts(context.Background())
		if err != nil {
			logger.Fatal("failed to load accounts", zap.Error(err))
		}
		logger.Info("loaded accounts", zap.Int("count", len(accounts)))

		walFile, err := wal.NewWAL(cfg.Ledger.WALPath)
		if err != nil {
			logger.Fatal("failed to init wal", zap.Error(err))
		}
		defer walFile.Close()

		memLedger, err := memory_adapter.NewMutexLedger(accounts, walFile)
		if err != nil {
			logger.Fatal("failed to init memory ledger", zap.Error(err))
		}
		usedLedger = memLedger
	default:
		logger.Fatal("invalid ledger backend", zap.String("backend", cfg.Ledger.Backend))
	}

	core := usecase.NewCoreUseCase(usedLedger)
	server := rest_adapter.NewServer(core, logger)

	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.Server.Addr))
		if err := server.Listen(cfg.Server.Addr); err != nil {
			logger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	if err := server.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server exited")
}

func loadConfig() Config {
	cfgData, err := os.ReadFile("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}

	// Back-fill defaults the yaml may omit.
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = "mysql"
	}
	if cfg.Ledger.WALPath == "" {
		cfg.Ledger.WALPath = "wal.log"
	}
	if cfg.MySQL.MaxOpenConns == 0 {
		cfg.MySQL.MaxOpenConns = 100
	}
	if cfg.MySQL.MaxIdleConns == 0 {
		cfg.MySQL.MaxIdleConns = 10
	}
	if cfg.MySQL.ConnMaxLifetime == 0 {
		cfg.MySQL.ConnMaxLifetime = 30 * time.Minute
	}
	return cfg
}
