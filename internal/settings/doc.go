// Package settings loads the engine's optional `--settings FILE` YAML
// configuration via spf13/viper: a fresh *viper.Viper per call (not the
// package-level singleton), pointed at the given file, unmarshalled into
// a plain Go struct.
//
// Every field has a documented default so a settings file is optional;
// the engine runs with sane defaults when the flag is omitted.
package settings
