package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"camera-relay/internal/app"
)

// GetServerCommand возвращает команду для запуска сервера
func GetServerCommand() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Start camera relay server",
		Description: `Start the authenticated camera relay server.

Examples:
  camera-relay server --config ./config/config.yaml
  camera-relay server --port 5000 --debug
  camera-relay server --tls --cert server.crt --key server.key`,
		Flags: append(commonFlags(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override server port from config",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Override server host from config",
			},
			&cli.BoolFlag{
				Name:  "tls",
				Value: false,
				Usage: "Enable TLS",
			},
			&cli.StringFlag{
				Name:  "cert",
				Usage: "TLS certificate file",
			},
			&cli.StringFlag{
				Name:  "key",
				Usage: "TLS key file",
			},
		),
		Action: func(c *cli.Context) error {
			cmdCtx, err := NewCommandContext(c)
			if err != nil {
				return err
			}
			defer cmdCtx.Logger.Sync()

			if c.Int("port") != 0 {
				cmdCtx.Config.Port = c.Int("port")
			}
			if c.String("host") != "" {
				cmdCtx.Config.Host = c.String("host")
			}

			cmdCtx.Logger.Info("Starting camera relay server",
				zap.String("host", cmdCtx.Config.Host),
				zap.Int("port", cmdCtx.Config.Port),
				zap.Int("cameras", len(cmdCtx.Config.Cameras)),
				zap.Bool("tls", c.Bool("tls")))

			// Создаем приложение
			application, err := app.NewApplication(cmdCtx.Config, cmdCtx.Logger)
			if err != nil {
				return err
			}

			// Graceful shutdown по сигналу
			ctx, stop := signal.NotifyContext(c.Context,
				os.Interrupt,
				syscall.SIGTERM,
				syscall.SIGINT,
			)
			defer stop()

			if c.Bool("tls") {
				cert := c.String("cert")
				key := c.String("key")
				if cert == "" || key == "" {
					return fmt.Errorf("both --cert and --key are required for TLS")
				}
				return application.RunTLS(ctx, cert, key)
			}

			return application.Run(ctx)
		},
	}
}
