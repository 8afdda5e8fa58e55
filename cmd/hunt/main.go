package main

import (
	"github.com/huntbase/treasurehunt/internal/cli"
)

func main() {
	cli.Execute()
}
