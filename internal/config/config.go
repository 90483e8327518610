// Package config loads label stream settings from a YAML file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/happyhackingspace/framelabels"
	"github.com/happyhackingspace/framelabels/internal/storage"
	"github.com/happyhackingspace/framelabels/mlf"
	"github.com/happyhackingspace/framelabels/sparse"
)

// EnvPrefix prefixes environment overrides, e.g. FRAMELABELS_DIMENSION.
const EnvPrefix = "FRAMELABELS"

// File mirrors the configuration file.
type File struct {
	Name             string   `mapstructure:"name" yaml:"name"`
	Dimension        int      `mapstructure:"dimension" yaml:"dimension"`
	ElementType      string   `mapstructure:"elementType" yaml:"elementType"`
	FrameMode        bool     `mapstructure:"frameMode" yaml:"frameMode"`
	MLFFile          []string `mapstructure:"mlfFile" yaml:"mlfFile"`
	MLFFileList      string   `mapstructure:"mlfFileList" yaml:"mlfFileList,omitempty"`
	LabelMappingFile string   `mapstructure:"labelMappingFile" yaml:"labelMappingFile,omitempty"`
	WordTableFile    string   `mapstructure:"wordTableFile" yaml:"wordTableFile,omitempty"`
	HTKTimeToFrame   float64  `mapstructure:"htkTimeToFrame" yaml:"htkTimeToFrame"`
	Readers          int      `mapstructure:"readers" yaml:"readers"`
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"name":          "name",
	"dimension":     "dimension",
	"element-type":  "elementType",
	"mlf":           "mlfFile",
	"mlf-list":      "mlfFileList",
	"label-mapping": "labelMappingFile",
	"readers":       "readers",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("name", "labels")
	v.SetDefault("dimension", 0)
	v.SetDefault("elementType", "float")
	v.SetDefault("frameMode", true)
	v.SetDefault("mlfFile", []string{})
	v.SetDefault("mlfFileList", "")
	v.SetDefault("labelMappingFile", "")
	v.SetDefault("wordTableFile", "")
	v.SetDefault("htkTimeToFrame", mlf.DefaultTimeToFrame)
	v.SetDefault("readers", 4)
}

// Read merges defaults, the config file at path (optional), environment
// variables and any changed flags in flags (optional).
func Read(path string, flags *pflag.FlagSet) (*File, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &f, nil
}

// Load reads the configuration and resolves it into a deserializer Config.
// Relative paths from the config file are resolved against the file's
// directory; relative paths given as flags against the working directory.
func Load(path string, flags *pflag.FlagSet) (framelabels.Config, error) {
	f, err := Read(path, flags)
	if err != nil {
		return framelabels.Config{}, err
	}
	if flags != nil {
		if err := f.absFlagPaths(flags); err != nil {
			return framelabels.Config{}, err
		}
	}
	base := ""
	if path != "" {
		base = filepath.Dir(path)
	}
	return f.Resolve(storage.NewStorage(base))
}

// absFlagPaths makes paths that were set on the command line absolute, so
// they are not rebased onto the config file's directory.
func (f *File) absFlagPaths(flags *pflag.FlagSet) error {
	changed := func(name string) bool {
		fl := flags.Lookup(name)
		return fl != nil && fl.Changed
	}
	abs := func(p string) (string, error) {
		if p == "" {
			return p, nil
		}
		return filepath.Abs(p)
	}

	var err error
	if changed("mlf") {
		for i, p := range f.MLFFile {
			if f.MLFFile[i], err = abs(p); err != nil {
				return err
			}
		}
	}
	if changed("mlf-list") {
		if f.MLFFileList, err = abs(f.MLFFileList); err != nil {
			return err
		}
	}
	if changed("label-mapping") {
		if f.LabelMappingFile, err = abs(f.LabelMappingFile); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks settings that do not touch the filesystem.
func (f *File) Validate() error {
	var errs []error
	if f.Dimension <= 0 {
		errs = append(errs, fmt.Errorf("dimension must be positive, got %d", f.Dimension))
	}
	if _, err := sparse.ParseElementType(f.ElementType); err != nil {
		errs = append(errs, err)
	}
	if f.HTKTimeToFrame <= 0 {
		errs = append(errs, fmt.Errorf("htkTimeToFrame must be positive, got %v", f.HTKTimeToFrame))
	}
	if len(f.MLFFile) == 0 && f.MLFFileList == "" {
		errs = append(errs, errors.New("no label files: set mlfFile or mlfFileList"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", framelabels.ErrInvalidConfig, err)
	}
	return nil
}

// Resolve validates f and expands its label file paths with s.
func (f *File) Resolve(s *storage.Storage) (framelabels.Config, error) {
	if err := f.Validate(); err != nil {
		return framelabels.Config{}, err
	}
	et, _ := sparse.ParseElementType(f.ElementType)
	files, err := s.LabelFiles(f.MLFFile, f.MLFFileList)
	if err != nil {
		return framelabels.Config{}, err
	}
	return framelabels.Config{
		Name:             f.Name,
		Dimension:        f.Dimension,
		ElementType:      et,
		FrameMode:        f.FrameMode,
		LabelFiles:       files,
		LabelMappingFile: s.Path(f.LabelMappingFile),
		WordTableFile:    s.Path(f.WordTableFile),
		TimeToFrame:      f.HTKTimeToFrame,
		Concurrency:      f.Readers,
	}, nil
}
