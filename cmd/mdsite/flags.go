package main

import (
	flag "github.com/spf13/pflag"
)

// Flag names, shared with the viper keys and MDSITE_* variables.
const (
	flagConfig  = "config"
	flagQuiet   = "quiet"
	flagVerbose = "verbose"
	flagContent = "content"
	flagOutput  = "output"
	flagTheme   = "theme"
	flagStatic  = "static"
	flagBaseURL = "base-url"
	flagStyle   = "style"
	flagHost    = "host"
	flagPort    = "port"
	flagNoWatch = "no-watch"
)

// defaultPort is the serve command's default HTTP port.
const defaultPort = 8080

// addCommonFlags registers flags shared by every command.
func addCommonFlags(fs *flag.FlagSet) {
	fs.StringP(flagConfig, "c", "", "config file path or name (default: mdsite.yaml)")
	fs.BoolP(flagQuiet, "q", false, "only print errors")
	fs.BoolP(flagVerbose, "v", false, "log every page")
}

// addSiteFlags registers overrides for the site config.
func addSiteFlags(fs *flag.FlagSet) {
	fs.String(flagContent, "", "content directory")
	fs.StringP(flagOutput, "o", "", "output directory")
	fs.String(flagTheme, "", "theme directory overriding the built-in theme")
	fs.String(flagStatic, "", "static files directory")
	fs.String(flagBaseURL, "", "site base URL (https://example.com/docs/ or /docs/)")
	fs.String(flagStyle, "", "stylesheet name from the theme")
}

func addServeFlags(fs *flag.FlagSet) {
	fs.String(flagHost, "localhost", "host to bind to")
	fs.IntP(flagPort, "p", defaultPort, "port to serve on")
	fs.Bool(flagNoWatch, false, "do not rebuild on changes")
}
