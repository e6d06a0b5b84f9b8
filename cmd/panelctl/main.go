package main

import (
	"os"

	"github.com/KevinKickass/PanelSchema/internal/cli"
)

func main() {
	os.Exit(cli.New(os.Stdout, os.Stderr).Run(os.Args[1:]))
}
