// Package config loads railscope settings.
//
// # Resolution Order
//
// Later sources win:
//
//  1. Built-in defaults
//  2. The TOML file (~/.config/railscope/config.toml unless a path is given)
//  3. A .env file in the working directory, via LoadEnvFile
//  4. RAILSCOPE_* environment variables
//  5. Command-line flags, applied by the cli package
//
// A missing config file is not an error. Invalid TOML is reported as
// "parse config".
//
// # TOML Format
//
//	origin = "http://10.20.0.4:8000"
//	api_base_url = "/api"
//	state_dir = "~/.local/state/railscope"
//	timeout_seconds = 30
//	log_level = "info"     # debug, info, warn, error
//	log_format = "text"    # text or json
//	log_file = "~/.local/state/railscope/railscope.log"
//	theme = "Slate"
//	refresh_seconds = 30
//
// Every field is optional. Leading ~ is expanded in state_dir and log_file.
// A log_file of "-" sends logs to stderr.
//
// # Environment
//
// Each field has a RAILSCOPE_ counterpart in upper case, for example
// RAILSCOPE_API_BASE_URL overrides api_base_url. An absolute URL there
// replaces the origin entirely.
package config
