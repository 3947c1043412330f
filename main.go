package main

import (
	"os"

	"github.com/ByLCY/folio/cli"
)

func main() {
	os.Exit(cli.Execute())
}
