package main

import (
	"os"

	"github.com/snailsynk/snailsynk-go/internal/cli"
	"github.com/snailsynk/snailsynk-go/internal/logging"
)

func main() {
	code := cli.Execute()
	logging.Sync()
	os.Exit(code)
}
