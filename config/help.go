package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `Worker discovery & dispatch service.

Usage:
  market [flags]

Flags:
  -config-path  Path to the config yaml file (default "config.yaml")
  -help         Show this message
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
