// Package config provides the configuration for textcore engines and
// the textcore command.
//
// Configuration is assembled in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← TEXTCORE_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML or YAML
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Command line flags are applied by the caller after Load returns.
//
// # Basic Usage
//
//	cfg, err := config.Load("textcore.toml", os.LookupEnv)
//	if err != nil {
//	    return err
//	}
//	eng := engine.New(engine.FromConfig(cfg)...)
//
// A file looks like this:
//
//	[editor]
//	tab_size = 8
//	line_ending = "crlf"
//
//	[history]
//	capacity = 512
//
//	[logging]
//	level = "debug"
package config
