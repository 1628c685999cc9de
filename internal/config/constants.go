package config

// Default storage locations
const (
	// DefaultStorageRoot is the base directory for all persisted documents
	DefaultStorageRoot = "./data"
)
