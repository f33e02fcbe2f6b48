package main

import (
	"os"

	"github.com/phillip/edubridge-go/cli"
)

func main() {
	env := cli.Environment{
		Stderr: os.Stderr,
		Stdout: os.Stdout,
	}

	os.Exit(cli.Run(env))
}
