package config

const (
	// DefaultDatabasePath is the default path for the SQLite catalog database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultPageLimit is the page size used when a list request omits limit
	DefaultPageLimit = 12

	// MaxPageLimit caps the page size a client may request
	MaxPageLimit = 100
)
