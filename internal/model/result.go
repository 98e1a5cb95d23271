package model

// RootResult is the materialized outcome of scanning one root.
type RootResult struct {
	Root    Path     `yaml:"root"`
	Count   int      `yaml:"count"`
	Paths   []Path   `yaml:"paths,omitempty"`
	Batches [][]Path `yaml:"batches,omitempty"`
}
