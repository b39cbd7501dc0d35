package config

import (
	"flag"
	"os"

	"github.com/dsmirnov/passvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the vault server (default from Config)
//	-f string   path of the local key database (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the vault server")
	fs.StringVar(&cfg.KeyDBPath, "f", cfg.KeyDBPath, "path of the local key database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
