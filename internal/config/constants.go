package config

const (
	// DefaultDatabasePath is the default path for the catalogue database
	DefaultDatabasePath = "./catalogue.db"

	// DefaultCoversPath is the default directory for stored cover images
	DefaultCoversPath = "./cover-images"
)
