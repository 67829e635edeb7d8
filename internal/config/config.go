package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigFile        = "site.yml"
	defaultEnvFile           = ".env"
	defaultPort              = "8080"
	defaultSiteURL           = "https://technomindai.com"
	defaultSiteName          = "TechnomindAI"
	defaultEnvironment       = "local"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 15 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultRequestTimeout    = 30 * time.Second
	defaultContactEmail      = "info@technomindai.com"
	defaultContactPhone      = "+90 212 000 00 00"
	defaultMapEmbedURL       = "https://www.openstreetmap.org/export/embed.html?bbox=28.97,41.00,29.02,41.03&layer=mapnik&marker=41.015,28.995"
)

// Config captures the runtime configuration of the web server.
type Config struct {
	Port         string `yaml:"port" env:"TM_WEB_PORT"`
	TemplatesDir string `yaml:"templates_dir" env:"TM_WEB_TEMPLATES_DIR"`
	PublicDir    string `yaml:"public_dir" env:"TM_WEB_PUBLIC_DIR"`
	ContentDir   string `yaml:"content_dir" env:"TM_WEB_CONTENT_DIR"`
	LocalesDir   string `yaml:"locales_dir" env:"TM_WEB_LOCALES_DIR"`
	// SEOFile defaults to <content_dir>/seo/meta.json.
	SEOFile string `yaml:"seo_file" env:"TM_WEB_SEO_FILE"`

	SiteURL  string `yaml:"site_url" env:"TM_WEB_SITE_URL"`
	SiteName string `yaml:"site_name" env:"TM_WEB_SITE_NAME"`

	Dev           bool   `yaml:"dev" env:"TM_WEB_DEV"`
	Environment   string `yaml:"environment" env:"TM_WEB_ENV"`
	LogLevel      string `yaml:"log_level" env:"TM_WEB_LOG_LEVEL"`
	SecureCookies bool   `yaml:"secure_cookies" env:"TM_WEB_SECURE_COOKIES"`

	HTTP      HTTPConfig      `yaml:"http"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Contact   ContactConfig   `yaml:"contact"`
}

// HTTPConfig holds server timeouts.
type HTTPConfig struct {
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"TM_WEB_READ_HEADER_TIMEOUT"`
	ReadTimeout       time.Duration `yaml:"read_timeout" env:"TM_WEB_READ_TIMEOUT"`
	WriteTimeout      time.Duration `yaml:"write_timeout" env:"TM_WEB_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" env:"TM_WEB_IDLE_TIMEOUT"`
	RequestTimeout    time.Duration `yaml:"request_timeout" env:"TM_WEB_REQUEST_TIMEOUT"`
}

// AnalyticsConfig holds client instrumentation ids surfaced to templates.
type AnalyticsConfig struct {
	GA4MeasurementID string `yaml:"ga4_measurement_id" env:"TM_WEB_GA_MEASUREMENT_ID"`
	GTMContainerID   string `yaml:"gtm_container_id" env:"TM_WEB_GTM_CONTAINER_ID"`
	Debug            bool   `yaml:"debug" env:"TM_WEB_ANALYTICS_DEBUG"`
}

// ContactConfig holds the details shown next to the contact form.
type ContactConfig struct {
	Email string `yaml:"email" env:"TM_WEB_CONTACT_EMAIL"`
	Phone string `yaml:"phone" env:"TM_WEB_CONTACT_PHONE"`
	// MapEmbedURL is an https page rendered in an iframe; empty hides the map.
	MapEmbedURL string `yaml:"map_embed_url" env:"TM_WEB_MAP_EMBED_URL"`
	// Social entries are indexed in the environment: TM_WEB_SOCIAL_0_NAME.
	Social []SocialLink `yaml:"social" envPrefix:"TM_WEB_SOCIAL_"`
}

// SocialLink is a named profile link.
type SocialLink struct {
	Name string `yaml:"name" env:"NAME"`
	URL  string `yaml:"url" env:"URL"`
}

// Addr returns the listen address.
func (c Config) Addr() string { return ":" + c.Port }

// SEOPath returns the SEO document location.
func (c Config) SEOPath() string {
	if strings.TrimSpace(c.SEOFile) != "" {
		return c.SEOFile
	}
	return filepath.Join(c.ContentDir, "seo", "meta.json")
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:         defaultPort,
		TemplatesDir: "templates",
		PublicDir:    "public",
		ContentDir:   "content",
		LocalesDir:   "locales",
		SiteURL:      defaultSiteURL,
		SiteName:     defaultSiteName,
		Environment:  defaultEnvironment,
		LogLevel:     "info",
		HTTP: HTTPConfig{
			ReadHeaderTimeout: defaultReadHeaderTimeout,
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
			IdleTimeout:       defaultIdleTimeout,
			RequestTimeout:    defaultRequestTimeout,
		},
		Contact: ContactConfig{
			Email:       defaultContactEmail,
			Phone:       defaultContactPhone,
			MapEmbedURL: defaultMapEmbedURL,
			Social: []SocialLink{
				{Name: "LinkedIn", URL: "https://www.linkedin.com/company/technomindai"},
				{Name: "X", URL: "https://x.com/technomindai"},
				{Name: "Instagram", URL: "https://www.instagram.com/technomindai"},
			},
		},
	}
}

// Option customises Load.
type Option func(*loaderOptions)

type loaderOptions struct {
	configFile   string
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithConfigFile overrides the YAML file path. An empty path disables it.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile overrides the dotenv file path. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) { o.envFile = path }
}

// WithEnvMap supplies explicit environment values; they win over everything else.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) { o.envMap = values }
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) { o.useSystemEnv = false }
}

// Load assembles configuration from defaults, the optional YAML file, the
// optional .env file and the environment, in increasing precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		configFile:   defaultConfigFile,
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	cfg := Default()
	if err := loadYAML(options.configFile, &cfg); err != nil {
		return Config{}, err
	}

	values, err := environment(options)
	if err != nil {
		return Config{}, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: values}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	// Cloud Run injects PORT; the prefixed variable still wins.
	if _, ok := values["TM_WEB_PORT"]; !ok {
		if p := strings.TrimSpace(values["PORT"]); p != "" {
			cfg.Port = p
		}
	}
	if strings.EqualFold(cfg.Environment, "prod") {
		cfg.SecureCookies = true
	}
	cfg.SiteURL = strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks invariants the server relies on.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("port is required"))
	}
	u, err := url.Parse(c.SiteURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("site url %q must be an absolute http(s) url", c.SiteURL))
	}
	for name, d := range map[string]time.Duration{
		"read_header_timeout": c.HTTP.ReadHeaderTimeout,
		"read_timeout":        c.HTTP.ReadTimeout,
		"write_timeout":       c.HTTP.WriteTimeout,
		"idle_timeout":        c.HTTP.IdleTimeout,
		"request_timeout":     c.HTTP.RequestTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if m := strings.TrimSpace(c.Contact.MapEmbedURL); m != "" && !isHTTPS(m) {
		errs = append(errs, fmt.Errorf("map embed url %q must be an https url", m))
	}
	for i, sl := range c.Contact.Social {
		if strings.TrimSpace(sl.Name) == "" || !isHTTPS(sl.URL) {
			errs = append(errs, fmt.Errorf("social link %d needs a name and an https url", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func isHTTPS(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme == "https" && u.Host != ""
}

func loadYAML(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func environment(o loaderOptions) (map[string]string, error) {
	values := map[string]string{}
	if strings.TrimSpace(o.envFile) != "" {
		dotenv, err := godotenv.Read(o.envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read env file %s: %w", o.envFile, err)
		}
		for k, v := range dotenv {
			values[k] = v
		}
	}
	if o.useSystemEnv {
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				values[k] = v
			}
		}
	}
	for k, v := range o.envMap {
		values[k] = v
	}
	return values, nil
}
