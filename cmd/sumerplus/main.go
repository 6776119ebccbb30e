package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sumerplus/internal/config"
	"sumerplus/internal/generator"
	"sumerplus/internal/store"
)

var (
	cfgFile string
	dataDir string
	cfg     *config.AppConfig

	rootCmd = &cobra.Command{
		Use:   "sumerplus",
		Short: "Weekly owner/driver settlement statement generator",
		Long: `sumerplus reads weekly load spreadsheets and writes one owner and one driver
settlement statement (PDF) per truck.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: config.toml beside the executable)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (overrides config)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(sheetsCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(driverCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Printf("received interrupt signal, shutting down...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	loaded, info, err := config.LoadConfigFrom(path)
	if err != nil {
		if cfgFile != "" {
			return fmt.Errorf("load config: %w", err)
		}
		log.Printf("加载配置失败，使用默认配置: %v", err)
		loaded = config.DefaultConfig()
	} else if info.Found {
		log.Printf("config: %s", info.Path)
	}

	if dataDir != "" {
		loaded.Data.DataDir = dataDir
	}
	cfg = loaded
	return nil
}

// newGenerator 按配置创建生成器
func newGenerator() *generator.Generator {
	return generator.New(
		generator.WithPayConfig(cfg.Pay.Calculator()),
		generator.WithTitle(cfg.Pay.CompanyTitle),
	)
}

// openStore 打开数据目录下的 sqlite
func openStore() (*store.Store, error) {
	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return store.New(config.DatabasePath(dir))
}
