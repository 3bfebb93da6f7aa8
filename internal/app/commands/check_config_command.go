package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"camera-relay/internal/config"
)

// GetCheckConfigCommand возвращает команду проверки конфигурации
func GetCheckConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "check-config",
		Usage: "Validate configuration file and exit",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "./config/config.yaml",
				Usage: "Path to configuration file",
			},
		},
		Action: func(c *cli.Context) error {
			path := c.String("config")

			cfg, err := config.LoadConfig(path)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			fmt.Printf("Config OK: %d camera(s), %d allowed principal(s)\n",
				len(cfg.Cameras), len(cfg.Auth.AllowedPrincipals))
			return nil
		},
	}
}
