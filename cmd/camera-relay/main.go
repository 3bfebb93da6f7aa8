package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"camera-relay/internal/app/commands"
)

func main() {
	cliApp := &cli.App{
		Name:           "camera-relay",
		Usage:          "Authenticated network camera relay",
		Version:        commands.Version,
		Commands:       commands.GetCommands(),
		DefaultCommand: "server",
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}
