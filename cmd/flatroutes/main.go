package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flatroutes-dev/flatroutes/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬  ┌─┐┌┬┐┬─┐┌─┐┬ ┬┌┬┐┌─┐┌─┐
  ├┤ │  ├─┤ │ ├┬┘│ ││ │ │ ├┤ └─┐
  └  ┴─┘┴ ┴ ┴ ┴└─└─┘└─┘ ┴ └─┘└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "flatroutes",
		Short: "Compile flat-file route names into a route manifest",
		Long: `flatroutes turns flat route file names into URL path patterns
and a hierarchical route manifest.

File names use dots and slashes as separators, $ for dynamic
parameters, [brackets] to escape special characters, and
(parentheses) for optional segments:

  concerts.$city.tsx      ->  concerts/:city
  ($lang).about.tsx       ->  :lang?/about
  files.$.tsx             ->  files/*

Commands cover one-shot compiles, a watching dev server with a
live manifest feed, and publishing manifests to S3.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		compileCmd(),
		devCmd(),
		publishCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the flatroutes ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
