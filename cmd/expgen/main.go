package main

import (
	"github.com/NVIDIA/expgen/pkg/cli"
)

func main() {
	cli.Execute()
}
