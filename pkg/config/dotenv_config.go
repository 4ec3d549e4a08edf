package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/apex/log"
	"github.com/mitchellh/go-homedir"
	"github.com/subosito/gotenv"
)

type DotenvConfig struct {
	DotenvPath string
}

func NewDotenvConfig(path string) *DotenvConfig {
	return &DotenvConfig{DotenvPath: path}
}

// MorphDotenvPath returns the default dotenv location (~/.morph/morph.env),
// unless MORPH_DOTENV overrides it.
func MorphDotenvPath() string {
	if p := os.Getenv("MORPH_DOTENV"); p != "" {
		return p
	}

	dir, err := homedir.Dir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, ".morph", "morph.env")
}

// MustLoadFromMorphDotenv loads the morph dotenv file and installs it as the
// package configer. A missing file is not fatal; the environment still serves
// lookups in that case.
func MustLoadFromMorphDotenv() Configer {
	c := NewDotenvConfig(MorphDotenvPath())
	if err := c.Load(); err != nil {
		log.Infof("No dotenv file at %s, using environment only", c.DotenvPath)
	}

	SetConfig(c)
	return c
}

func (c *DotenvConfig) LoadFromPath(path string) error {
	c.DotenvPath = path
	return gotenv.Load(c.DotenvPath)
}

func (c *DotenvConfig) Load() error {
	return gotenv.Load(c.DotenvPath)
}

func (c *DotenvConfig) GetKey(key string) string {
	return os.Getenv(key)
}

func (c *DotenvConfig) MustGetKey(key string) string {
	val := c.GetKey(key)
	if val == "" {
		log.Fatalf("No such required config key: '%s'", key)
	}

	return val
}

func (c *DotenvConfig) GetKeyWithDefault(key, defaultValue string) string {
	val := c.GetKey(key)
	if val == "" {
		return defaultValue
	}

	return val
}

func (c *DotenvConfig) GetIntKey(key string) int {
	intVal, err := strconv.Atoi(c.GetKey(key))
	if err != nil {
		return 0
	}

	return intVal
}

func (c *DotenvConfig) MustGetIntKey(key string) int {
	intVal, err := strconv.Atoi(c.GetKey(key))
	if err != nil {
		log.Fatalf("Required config key either doesn't exist or isn't an int: '%s': %s", key, err)
	}

	return intVal
}

func (c *DotenvConfig) GetIntKeyWithDefault(key string, defaultValue int) int {
	intVal, err := strconv.Atoi(c.GetKey(key))
	if err != nil {
		return defaultValue
	}

	return intVal
}
