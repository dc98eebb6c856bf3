package main

import (
	"fmt"
	"os"

	"github.com/spec-kit/msp-dashboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "opsctl:", err)
		os.Exit(1)
	}
}
