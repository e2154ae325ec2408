// Package i18n resolves message keys such as _REMOVE_TRIGGER_CONFIRM_TITLE_
// into display strings.
package i18n

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/policywizard/internal/cachemanager"
	"github.com/zjrosen/policywizard/internal/log"
)

// DefaultLocale is always available from the embedded catalogs.
const DefaultLocale = "en-US"

//go:embed locales/*.yaml
var builtin embed.FS

// ErrUnknownLocale is returned when no catalog exists for a locale.
var ErrUnknownLocale = errors.New("unknown locale")

// Messages maps a message key to its display string.
type Messages map[string]string

// Catalog translates keys for the active locale. Keys without a message
// pass through unchanged.
type Catalog struct {
	mu       sync.RWMutex
	locale   string
	messages Messages
	fallback Messages

	dir    string
	loader *cachemanager.ReadThroughCache[string, Messages]
}

// Options configures a Catalog.
type Options struct {
	// Locale is the active locale. Empty selects DefaultLocale.
	Locale string
	// Dir holds <locale>.yaml files that override the embedded catalogs.
	Dir string
}

// New loads the catalog for opts.Locale. The embedded default locale backs
// every lookup.
func New(opts Options) (*Catalog, error) {
	c := &Catalog{dir: opts.Dir}
	c.loader = cachemanager.NewReadThroughCache[string, Messages](
		cachemanager.NewInMemoryCacheManager[string, Messages]("i18n", cachemanager.NoExpiration),
		cachemanager.NoExpiration,
		c.load,
	)

	fallback, err := c.loader.Get(context.Background(), DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("loading %s catalog: %w", DefaultLocale, err)
	}
	c.fallback = fallback
	c.locale = DefaultLocale
	c.messages = fallback

	locale := opts.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	if err := c.SetLocale(locale); err != nil {
		return nil, err
	}
	return c, nil
}

// SetLocale switches the active locale.
func (c *Catalog) SetLocale(locale string) error {
	messages, err := c.loader.Get(context.Background(), locale)
	if err != nil {
		return fmt.Errorf("loading %s catalog: %w", locale, err)
	}

	c.mu.Lock()
	c.locale = locale
	c.messages = messages
	c.mu.Unlock()

	log.Info(log.CatI18n, "locale selected", "locale", locale, "messages", len(messages))
	return nil
}

// Locale returns the active locale.
func (c *Catalog) Locale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locale
}

// Translate returns the message for key in the active locale, then the
// default locale, then key itself.
func (c *Catalog) Translate(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if msg, ok := c.messages[key]; ok {
		return msg
	}
	if msg, ok := c.fallback[key]; ok {
		return msg
	}
	log.Debug(log.CatI18n, "missing message", "locale", c.locale, "key", key)
	return key
}

// load reads <locale>.yaml from the override directory, falling back to the
// embedded catalogs.
func (c *Catalog) load(_ context.Context, locale string) (Messages, error) {
	name := locale + ".yaml"

	if c.dir != "" {
		data, err := os.ReadFile(filepath.Join(c.dir, name)) //nolint:gosec // G304: catalog directory is user configured
		switch {
		case err == nil:
			log.Debug(log.CatI18n, "catalog loaded from disk", "locale", locale, "dir", c.dir)
			return parse(data)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	data, err := builtin.ReadFile("locales/" + name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
	}
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func parse(data []byte) (Messages, error) {
	messages := Messages{}
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return messages, nil
}
