// internal/config/config.go
//
// Process configuration.
// Sources, lowest to highest precedence:
//   - assets/concentration.yml (embedded defaults)
//   - the YAML file named by CONFIG_FILE (or the path passed to Load)
//   - environment variables (PORT, DB_PATH, DAILY_SALT, NATS_URL, JWT_SECRET, CLIENT_ORIGIN)

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/rhysstever/CardMatchGame/assets"
	"github.com/rhysstever/CardMatchGame/internal/board"
	"github.com/rhysstever/CardMatchGame/internal/card"
	"github.com/rhysstever/CardMatchGame/internal/deck"
	"github.com/rhysstever/CardMatchGame/internal/game"
	"github.com/rhysstever/CardMatchGame/internal/layout"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Board  BoardConfig   `yaml:"board"`
	Layout layout.Config `yaml:"layout"`
	Deck   DeckConfig    `yaml:"deck"`
	Server ServerConfig  `yaml:"server"`
	Daily  DailyConfig   `yaml:"daily"`
	Events EventsConfig  `yaml:"events"`
}

// BoardConfig sizes the default board. CardCount, when set, replaces Rows
// with ceil(CardCount / Columns).
type BoardConfig struct {
	Rows      int    `yaml:"rows"`
	Columns   int    `yaml:"columns"`
	CardCount int    `yaml:"card_count"`
	Fill      string `yaml:"fill"`
	Offset    int    `yaml:"offset"`
}

// DeckConfig lists the deck contents. Cards, when non-empty, is used as-is
// and Values/Types are ignored.
type DeckConfig struct {
	Values []string `yaml:"values"`
	Types  []string `yaml:"types"`
	Cards  []string `yaml:"cards"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	DBPath       string        `yaml:"db_path"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
	JWTSecret    string        `yaml:"jwt_secret"`
	ClientOrigin string        `yaml:"client_origin"`
}

type DailyConfig struct {
	Salt    string `yaml:"salt"`
	Rows    int    `yaml:"rows"`
	Columns int    `yaml:"columns"`
}

type EventsConfig struct {
	NatsURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// Load reads the embedded defaults, overlays path (if it names a readable
// file) and then the environment, and validates the result.
func Load(path string) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(assets.DefaultConfig, &c); err != nil {
		return nil, fmt.Errorf("embedded config: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			log.Info().Str("path", path).Msg("config loaded")
		case errors.Is(err, os.ErrNotExist):
			log.Warn().Str("path", path).Msg("config file not found, using defaults")
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	c.applyEnv()
	c.derive()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Server.Port, "PORT")
	setFromEnv(&c.Server.DBPath, "DB_PATH")
	setFromEnv(&c.Server.JWTSecret, "JWT_SECRET")
	setFromEnv(&c.Server.ClientOrigin, "CLIENT_ORIGIN")
	setFromEnv(&c.Daily.Salt, "DAILY_SALT")
	setFromEnv(&c.Events.NatsURL, "NATS_URL")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) derive() {
	if c.Board.CardCount > 0 && c.Board.Columns > 0 {
		c.Board.Rows = (c.Board.CardCount + c.Board.Columns - 1) / c.Board.Columns
	}
	if c.Layout == (layout.Config{}) {
		c.Layout = layout.Default
	}
}

// Validate rejects sizes the board builder cannot deal and unknown enums.
func (c *Config) Validate() error {
	if c.Board.Rows <= 0 || c.Board.Columns <= 0 {
		return fmt.Errorf("%w: board is %dx%d", ErrInvalid, c.Board.Rows, c.Board.Columns)
	}
	if c.Board.Rows > board.MaxCells/c.Board.Columns {
		return fmt.Errorf("%w: board exceeds %d cells", ErrInvalid, board.MaxCells)
	}
	if c.Board.CardCount < 0 || c.Board.Offset < 0 {
		return fmt.Errorf("%w: negative card_count or offset", ErrInvalid)
	}
	if _, err := game.ParseFill(c.Board.Fill); err != nil {
		return fmt.Errorf("%w: fill %q", ErrInvalid, c.Board.Fill)
	}
	if c.Daily.Rows <= 0 || c.Daily.Columns <= 0 || c.Daily.Rows > board.MaxCells/c.Daily.Columns ||
		c.Daily.Rows*c.Daily.Columns%2 != 0 {
		return fmt.Errorf("%w: daily board must have an even, positive cell count", ErrInvalid)
	}
	if c.Layout.CardWidth <= 0 || c.Layout.CardHeight <= 0 || c.Layout.RowGap < 0 || c.Layout.ColumnGap < 0 {
		return fmt.Errorf("%w: layout extents", ErrInvalid)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("%w: empty server.port", ErrInvalid)
	}
	if _, err := c.BuildDeck(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// BuildDeck returns the catalog described by the deck section.
func (c *Config) BuildDeck() (deck.Deck, error) {
	if len(c.Deck.Cards) > 0 {
		return deck.Parse(c.Deck.Cards)
	}
	if len(c.Deck.Values) == 0 && len(c.Deck.Types) == 0 {
		return deck.Standard(), nil
	}

	values := make([]card.Value, 0, len(c.Deck.Values))
	for _, s := range c.Deck.Values {
		v, ok := card.ParseValue(s)
		if !ok {
			return nil, fmt.Errorf("unknown card value %q", s)
		}
		values = append(values, v)
	}
	types := make([]card.Type, 0, len(c.Deck.Types))
	for _, s := range c.Deck.Types {
		t, ok := card.ParseType(s)
		if !ok {
			return nil, fmt.Errorf("unknown card type %q", s)
		}
		types = append(types, t)
	}
	return deck.Product(values, types)
}

// GameOptions returns the default board options for a new game.
func (c *Config) GameOptions() (game.Options, error) {
	d, err := c.BuildDeck()
	if err != nil {
		return game.Options{}, err
	}
	fill, err := game.ParseFill(c.Board.Fill)
	if err != nil {
		return game.Options{}, err
	}
	return game.Options{
		Rows:    c.Board.Rows,
		Columns: c.Board.Columns,
		Fill:    fill,
		Offset:  c.Board.Offset,
		Deck:    d,
		Layout:  c.Layout,
	}, nil
}
