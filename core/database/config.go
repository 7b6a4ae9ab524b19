package database

// Config holds configuration for the run-history database.
type Config struct {
	// Driver is the database driver (sqlite, mysql).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Path is the database file for the sqlite driver.
	Path string `mapstructure:"path" default:"reconciler.db"`
	// Host is the database host (mysql).
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port (mysql).
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user (mysql).
	User string `mapstructure:"user" default:"root"`
	// Password is the database password (mysql).
	Password string `mapstructure:"password" default:""`
	// Name is the database name (mysql).
	Name string `mapstructure:"name" default:"reconciler"`
	// TimeoutSeconds is the connection timeout in seconds (mysql).
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
