// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `CONSOLE_`, where `__` maps to “.”
     (e.g., `CONSOLE_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, the tree is unmarshalled into strongly-typed structs,
validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.  `ResolveSecrets()` then swaps any
`vault:` references for their plaintext values.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface on the bootstrap console before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/api` work from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/circlehq/console/internal/vault"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves CONSOLE_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("CONSOLE_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, validates, and caches Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: CONSOLE_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider("CONSOLE_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*─────────────────────────── secret resolution ─────────────────────────────*/

const vaultPrefix = "vault:"

// ResolveSecrets replaces every `vault:secret/path#key` value in cfg with
// its plaintext.  A no-op when no value carries the prefix, so local
// development never needs a Vault server.
func ResolveSecrets(ctx context.Context, cfg *Config) error {
	if !strings.HasPrefix(cfg.Database.Password, vaultPrefix) {
		return nil
	}

	cli, err := vault.New(ctx, zap.S().Infof)
	if err != nil {
		return err
	}

	pw, err := resolve(ctx, cli, cfg.Database.Password)
	if err != nil {
		return err
	}
	cfg.Database.Password = pw
	return nil
}

// resolve splits "vault:secret/data-path#key" and fetches the key.
func resolve(ctx context.Context, cli *vault.Client, ref string) (string, error) {
	ref = strings.TrimPrefix(ref, vaultPrefix)
	path, key := ref, "value"
	if i := strings.IndexByte(ref, '#'); i != -1 {
		path, key = ref[:i], ref[i+1:]
	}
	return cli.GetKV(ctx, path, key, 5*time.Minute)
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }
