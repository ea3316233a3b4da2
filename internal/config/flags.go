package config

import (
	"flag"
	"os"
	"strings"

	"github.com/mlaplante/passvault/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   PostgreSQL DSN
//	-k string   hex-encoded encryption key
//	-tags string comma-separated list of allowed HTML tags
//	-l string   log level
//
// os.Args is first filtered to the flags handled here, so components with
// their own flag sets do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-k", "-tags", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.EncryptionKey, "k", config.EncryptionKey, "hex-encoded encryption key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	tags := fs.String("tags", strings.Join(config.AllowedHTMLTags, ","), "allowed HTML tags, comma-separated")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *tags == "" {
		config.AllowedHTMLTags = nil
	} else {
		config.AllowedHTMLTags = strings.Split(*tags, ",")
	}
}
