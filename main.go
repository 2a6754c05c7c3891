package main

import (
	"os"

	"cmdvault/cli"
)

func main() {
	os.Exit(cli.Execute())
}
