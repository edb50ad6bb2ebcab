package realmconfig

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// StarlarkExt is the file extension of Starlark descriptors.
const StarlarkExt = ".star"

// LoadFile reads the descriptor file.  The format is chosen by extension.
func LoadFile(filename string) (*Descriptor, error) {
	if strings.EqualFold(filepath.Ext(filename), StarlarkExt) {
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("open descriptor: %w", err)
		}
		defer f.Close()
		return LoadStarlark(filename, f)
	}

	v := viper.New()
	v.SetConfigFile(filename)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read descriptor %s: %w", filename, err)
	}
	return unmarshal(v, filename)
}

// Load reads a descriptor in the given viper config type ("yaml", "json",
// "toml").
func Load(r io.Reader, configType string) (*Descriptor, error) {
	v := viper.New()
	v.SetConfigType(configType)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("read %s descriptor: %w", configType, err)
	}
	return unmarshal(v, configType+" descriptor")
}

func unmarshal(v *viper.Viper, what string) (*Descriptor, error) {
	var desc Descriptor
	if err := v.Unmarshal(&desc); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return &desc, nil
}
