package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"camera-relay/internal/camera"
)

// GetCamerasCommand возвращает команду для вывода реестра камер
func GetCamerasCommand() *cli.Command {
	return &cli.Command{
		Name:  "cameras",
		Usage: "List configured cameras",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			cmdCtx, err := NewCommandContext(c)
			if err != nil {
				return err
			}
			defer cmdCtx.Logger.Sync()

			registry, err := camera.NewRegistry(cmdCtx.Config.Cameras)
			if err != nil {
				return err
			}

			fmt.Printf("Configured cameras (%d):\n", registry.Len())
			for _, name := range registry.Names() {
				cam, _ := registry.Lookup(name)
				if cam.IsSynthetic() {
					fmt.Printf("  %-20s synthetic test pattern\n", cam.Name)
					continue
				}
				fmt.Printf("  %-20s %s:%d channel %d\n",
					cam.Name, cam.Address, cam.Port, cam.Channel)
			}
			fmt.Printf("\nDefault selection: %s\n", registry.First().Name)

			return nil
		},
	}
}
