package richtext

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// environmentFile is the on-disk TOML schema for an environment.
type environmentFile struct {
	Font struct {
		Family string  `toml:"family"`
		Size   float64 `toml:"size"`
	} `toml:"font"`
	Text struct {
		Foreground  string  `toml:"foreground"`
		Alignment   string  `toml:"alignment"`
		Direction   string  `toml:"direction"`
		Truncation  string  `toml:"truncation"`
		LineSpacing float64 `toml:"line-spacing"`
		LineHeight  float64 `toml:"line-height"`
		Tightening  bool    `toml:"tightening"`
	} `toml:"text"`
}

// LoadEnvironment reads an environment from a TOML theme file. A missing
// file is not an error: the defaults come back unchanged. Unset fields
// keep their defaults, so a theme file only overrides what it names.
func LoadEnvironment(path string) (Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultEnvironment(), nil
		}
		return Environment{}, WrapError(err, "reading environment file %s", path)
	}
	return parseEnvironmentTOML(path, data)
}

// parseEnvironmentTOML decodes TOML data into an Environment.
func parseEnvironmentTOML(path string, data []byte) (Environment, error) {
	var file environmentFile
	if err := toml.Unmarshal(data, &file); err != nil {
		perr := &ParseError{Path: path, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, _ := derr.Position()
			perr.Line = row
		}
		return Environment{}, perr
	}

	env := DefaultEnvironment()
	if file.Font.Family != "" {
		env.Font.Family = file.Font.Family
	}
	if file.Font.Size > 0 {
		env.Font.Size = file.Font.Size
	}
	if file.Text.Foreground != "" {
		fg, err := Hex(file.Text.Foreground)
		if err != nil {
			return Environment{}, &ParseError{
				Path:    path,
				Message: fmt.Sprintf("text.foreground: %v", err),
				Err:     err,
			}
		}
		env.Foreground = fg
	}
	if file.Text.Alignment != "" {
		env.Alignment = ParseAlignment(file.Text.Alignment)
	}
	if file.Text.Direction != "" {
		env.Direction = ParseDirection(file.Text.Direction)
	}
	if file.Text.Truncation != "" {
		env.Truncation = ParseTruncation(file.Text.Truncation)
	}
	if file.Text.LineSpacing > 0 {
		env.LineSpacing = file.Text.LineSpacing
	}
	if file.Text.LineHeight > 0 {
		env.LineHeight = file.Text.LineHeight
	}
	env.Tightening = file.Text.Tightening

	return env, nil
}
