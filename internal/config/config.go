package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Bluesky struct {
		Host       string `env:"BLUESKY_HOST" env-default:"https://bsky.social"`
		Identifier string `env:"BLUESKY_IDENTIFIER"`
		Password   string `env:"BLUESKY_PASSWORD"`
	}
	Archive struct {
		Dir            string `env:"ARCHIVE_DIR" env-default:"./archive"`
		CheckpointPath string `env:"CHECKPOINT_PATH" env-default:"./bluesky-import-log.json"`
	}
	Import struct {
		Simulate bool   `env:"SIMULATE" env-default:"false"`
		Replies  bool   `env:"IMPORT_REPLIES" env-default:"false"`
		MinDate  string `env:"MIN_DATE"`
		MaxDate  string `env:"MAX_DATE"`
		// PastHandles lists every handle the author has used on the source
		// platform, comma separated. Links to these accounts are rewritten
		// into references to the migrated posts.
		PastHandles string `env:"PAST_HANDLES"`
		// Schedule is an optional cron expression; when set the import is
		// re-run on that schedule instead of exiting after one pass.
		Schedule string `env:"IMPORT_SCHEDULE"`
	}
}

var (
	once sync.Once
	cfg  *Config
	rerr error
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if _, err := os.Stat(".env"); err == nil {
			rerr = cleanenv.ReadConfig(".env", cfg)
		} else {
			rerr = cleanenv.ReadEnv(cfg)
		}
		if rerr != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			rerr = fmt.Errorf("failed to read configuration: %w\n%s", rerr, help)
		}
	})
	return cfg, rerr
}

// PastHandleList returns the configured past handles, lower-cased and trimmed.
func (c *Config) PastHandleList() []string {
	if c.Import.PastHandles == "" {
		return nil
	}
	parts := strings.Split(c.Import.PastHandles, ",")
	handles := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			handles = append(handles, p)
		}
	}
	return handles
}

// DateWindow parses the configured inclusive date bounds. A zero time means
// the bound is open on that side.
func (c *Config) DateWindow() (min, max time.Time, err error) {
	if c.Import.MinDate != "" {
		min, err = time.Parse("2006-01-02", c.Import.MinDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid MIN_DATE %q: %w", c.Import.MinDate, err)
		}
	}
	if c.Import.MaxDate != "" {
		max, err = time.Parse("2006-01-02", c.Import.MaxDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid MAX_DATE %q: %w", c.Import.MaxDate, err)
		}
		// Inclusive upper bound: anything on the max day still qualifies.
		max = max.Add(24*time.Hour - time.Nanosecond)
	}
	return min, max, nil
}
