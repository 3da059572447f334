package main

import (
	"fmt"
	"os"
	"strings"

	"blogicum/app/config"
	"blogicum/app/log"
	"blogicum/manage"
)

const cliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args to the operator commands.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("blogicum version %s\n", cliVersion)
	default:
		cfg := config.Load()
		log.Setup(cfg.LogLevel, cfg.IsProduction())
		if code := manage.HandleCommand(cfg, append([]string{cmd}, os.Args[2:]...)); code != 0 {
			exit(code)
		}
	}
}

func printHelp() {
	manage.PrintHelp()
}
