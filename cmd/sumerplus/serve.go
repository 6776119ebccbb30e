package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"sumerplus/internal/server"
)

func serveCmd() *cobra.Command {
	var (
		port int
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port > 0 {
				cfg.Server.Port = port
			}
			if dev {
				cfg.Server.DevMode = true
			}

			fmt.Println("==========================================")
			fmt.Println("  sumerplus - settlement statements")
			fmt.Println("==========================================")

			srv, err := server.NewServer(cfg)
			if err != nil {
				return fmt.Errorf("init server: %w", err)
			}
			defer srv.Close()

			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Run(addr) }()

			fmt.Printf("服务已启动: http://localhost:%d/api/health\n", cfg.Server.Port)
			fmt.Println("按 Ctrl+C 停止服务...")

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				log.Printf("正在关闭服务...")
				return nil
			}
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	cmd.Flags().BoolVar(&dev, "dev", false, "development mode (gin debug logging)")
	return cmd
}
