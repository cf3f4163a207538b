// Package config loads minidom configuration.
//
// Configuration is read with Viper from minidom.json (or .yaml / .toml) in
// the working directory or an explicit path, then overridden by MINIDOM_*
// environment variables (nested keys use underscores, for example
// MINIDOM_ROUTER_DEFAULTPATH). Missing files are not an error: every field
// has a default.
package config
