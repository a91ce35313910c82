// Package config loads environment-based configuration structs.
//
// It combines godotenv (optional .env file, loaded once per process) with
// caarlos0/env struct-tag parsing. Packages in this module declare their own
// config structs (e.g. apiclient.Config) and load them through this package.
package config
