package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flatroutes-dev/flatroutes/internal/config"
	"github.com/flatroutes-dev/flatroutes/internal/errors"
	"github.com/flatroutes-dev/flatroutes/pkg/flatroutes"
)

func compileCmd() *cobra.Command {
	var (
		routesDir string
		out       string
		tree      bool
		validate  bool
	)

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the routes directory into a manifest",
		Long: `Scan the routes directory, compile every route file name into a
URL path pattern, and print the resulting manifest.

Examples:
  flatroutes compile
  flatroutes compile --routes app/routes
  flatroutes compile --tree
  flatroutes compile --out routes.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(routesDir, out, tree, validate)
		},
	}

	cmd.Flags().StringVarP(&routesDir, "routes", "r", "", "Routes directory (default from flatroutes.json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the manifest to a file instead of stdout")
	cmd.Flags().BoolVarP(&tree, "tree", "t", false, "Print the route tree instead of JSON")
	cmd.Flags().BoolVar(&validate, "validate", true, "Check for route collisions")

	return cmd
}

// loadConfig loads flatroutes.json, or falls back to defaults when an
// explicit routes directory makes the config optional.
func loadConfig(routesDir string) (*config.Config, error) {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		if routesDir == "" {
			return nil, err
		}
		cfg = config.New()
	}
	if routesDir != "" {
		cfg.Routes.Dir = routesDir
	}
	return cfg, nil
}

func runCompile(routesDir, out string, tree, validate bool) error {
	cfg, err := loadConfig(routesDir)
	if err != nil {
		return err
	}

	walker := cfg.Walker()
	files, err := walker.Walk()
	if err != nil {
		return errors.New("E102").
			WithDetail("Cannot scan " + cfg.RoutesPath() + ": " + err.Error())
	}

	manifest, err := flatroutes.CompileWithOptions(cfg.RoutesPath(), files, flatroutes.CompileOptions{
		Validate: validate,
	})
	if err != nil {
		return errors.New("E001").Wrap(err)
	}

	if tree {
		fmt.Print(flatroutes.FormatTree(manifest))
		return nil
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if out != "" {
		if err := os.WriteFile(out, data, 0644); err != nil {
			return errors.New("E121").WithFile(out).Wrap(err)
		}
		success("Wrote %d routes to %s", len(manifest), out)
		return nil
	}

	fmt.Print(string(data))
	return nil
}
