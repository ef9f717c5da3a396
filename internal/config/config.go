package config

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"portfolio-motion/internal/engine2D/particle"
	"portfolio-motion/internal/utils"
)

const EnvPrefix = "PORTFOLIO_"

type Config struct {
	// Page is an HTML file to render; empty uses the built-in page.
	Page   string
	Assets string

	Width  int
	Height int
	FPS    int

	LogLevel    string
	Debug       bool
	GlobalMouse bool
	// RaylibInfo forwards raylib's info log regardless of LogLevel.
	RaylibInfo bool

	// Record writes a particle trace to this path.
	Record string
	// Inspect prints a summary of this trace and exits.
	Inspect string

	// Seed fixes the particle layout; 0 seeds from the clock.
	Seed int64
	// Particles overrides the population size when > 0.
	Particles int
	// Density is canvas area per particle; negative selects the fixed
	// population.
	Density        float64
	FollowViewport bool
	// Coarse forces touch mode, which disables the custom cursor.
	Coarse bool
}

func Defaults() Config {
	return Config{
		Width:          1280,
		Height:         720,
		FPS:            60,
		LogLevel:       "warn",
		FollowViewport: true,
	}
}

// Load resolves the configuration from, in increasing precedence: the
// defaults, envFile (a missing file is ignored), PORTFOLIO_* environment
// variables and args.
func Load(envFile string, args []string) (Config, error) {
	cfg := Defaults()

	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
			utils.Debug("Config: loaded %d entries from %s", len(vars), envFile)
		case errors.Is(err, os.ErrNotExist):
		default:
			return cfg, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("portfolio-motion", flag.ContinueOnError)
	cfg.bind(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("parse flags: %w", err)
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"PAGE":      &c.Page,
		"ASSETS":    &c.Assets,
		"LOG_LEVEL": &c.LogLevel,
		"RECORD":    &c.Record,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"WIDTH":     &c.Width,
		"HEIGHT":    &c.Height,
		"FPS":       &c.FPS,
		"PARTICLES": &c.Particles,
	}
	for key, dst := range ints {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"DEBUG":           &c.Debug,
		"GLOBAL_MOUSE":    &c.GlobalMouse,
		"FOLLOW_VIEWPORT": &c.FollowViewport,
		"COARSE":          &c.Coarse,
		"RAYLIB_INFO":     &c.RaylibInfo,
	}
	for key, dst := range bools {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = b
		}
	}

	if v, ok := lookup(EnvPrefix + "SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", EnvPrefix, err)
		}
		c.Seed = n
	}
	if v, ok := lookup(EnvPrefix + "DENSITY"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sDENSITY: %w", EnvPrefix, err)
		}
		c.Density = f
	}
	return nil
}

// bind registers a flag per field, defaulting to the current values.
func (c *Config) bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Page, "page", c.Page, "HTML page to render (default: built-in portfolio)")
	fs.StringVar(&c.Assets, "assets", c.Assets, "Extra directory searched for the page and fonts")
	fs.IntVar(&c.Width, "width", c.Width, "Initial window width")
	fs.IntVar(&c.Height, "height", c.Height, "Initial window height")
	fs.IntVar(&c.FPS, "fps", c.FPS, "Target frames per second")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable verbose debug logging and the debug overlay")
	fs.BoolVar(&c.RaylibInfo, "raylib-info", c.RaylibInfo, "Show raylib info messages at any log level")
	fs.BoolVar(&c.GlobalMouse, "global-mouse", c.GlobalMouse, "Track the pointer through X11 even when the window is unfocused")
	fs.StringVar(&c.Record, "record", c.Record, "Record a particle trace to this file")
	fs.StringVar(&c.Inspect, "inspect", c.Inspect, "Print a summary of a particle trace and exit")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Particle seed (0 = random)")
	fs.IntVar(&c.Particles, "particles", c.Particles, "Fixed particle count (0 = derive from canvas area)")
	fs.Float64Var(&c.Density, "density", c.Density, "Canvas area per particle (negative = fixed population)")
	fs.BoolVar(&c.FollowViewport, "follow-viewport", c.FollowViewport, "Resize the particle canvas with the window")
	fs.BoolVar(&c.Coarse, "coarse", c.Coarse, "Emulate a touch device (no custom cursor)")
}

// Validate checks the resolved values.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", c.FPS)
	}
	if c.Particles < 0 || c.Particles > particle.MaxParticles {
		return fmt.Errorf("invalid particle count %d (max %d)", c.Particles, particle.MaxParticles)
	}
	if math.IsNaN(c.Density) || math.IsInf(c.Density, 0) {
		return fmt.Errorf("invalid density %v", c.Density)
	}
	if c.Density > 0 && c.Density < particle.MinDensity {
		return fmt.Errorf("density %v is below the minimum of %v", c.Density, particle.MinDensity)
	}
	if _, err := utils.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Level returns the parsed log level; debug mode always logs everything.
func (c Config) Level() utils.LogLevel {
	if c.Debug {
		return utils.LevelDebug
	}
	level, _ := utils.ParseLevel(c.LogLevel)
	return level
}
