// Package config provides configuration structures and utilities for freqdict.
// It defines the options of a build run, the per-dictionary settings read
// from the .freqdict YAML file, and the XDG directories used for history.
package config
