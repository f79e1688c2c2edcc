// internal/config/model.go
//
// Typed configuration model for the console API.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                          – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `CONSOLE_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client by ResolveSecrets after unmarshalling, so the
// rest of the app only ever sees plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

//
// Database section
//

// Database holds the MySQL DSN and its secret.
//
// The DSN template stays in YAML so operators can tweak host, port, or
// flags without touching Vault.  The password may be a literal or a
// `vault:secret/path#key` reference resolved at boot.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password" validate:"required"`
}

//
// Auth section
//

// Auth configures bearer-token verification for the HTTP API.
type Auth struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required"`
}

//
// Geo section
//

// Geo points at the optional GeoLite2 database used by the request-info
// middleware.  Empty path disables geo lookups.
type Geo struct {
	CityDBPath string `koanf:"city_db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or CONSOLE_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // CONSOLE_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Auth     Auth     `koanf:"auth"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
