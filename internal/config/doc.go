// Package config provides configuration parsing for flatroutes projects.
//
// The configuration is stored in flatroutes.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "my-app",
//	  "routes": {
//	    "dir": "app/routes",
//	    "extensions": [".tsx", ".ts"],
//	    "ignore": ["*.test.*"]
//	  },
//	  "dev": {
//	    "port": 3000,
//	    "host": "localhost",
//	    "debounceMs": 100
//	  },
//	  "publish": {
//	    "bucket": "my-manifests",
//	    "prefix": "manifests",
//	    "region": "us-east-1"
//	  },
//	  "output": "routes.json"
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Port:", cfg.Dev.Port)
package config
