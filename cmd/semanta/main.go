package main

import (
	"github.com/mvp-joe/semanta/internal/cli"
)

func main() {
	cli.Execute()
}
