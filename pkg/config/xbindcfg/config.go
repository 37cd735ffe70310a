package xbindcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/omeyang/netbind/pkg/network/xbind"
)

// Format 配置文件格式。
type Format string

const (
	// FormatYAML YAML 格式。
	FormatYAML Format = "yaml"
	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

// Load 从文件加载 [xbind.Config]，格式按扩展名自动检测
// （.yaml/.yml 或 .json）。
func Load(path string) (xbind.Config, error) {
	if path == "" {
		return xbind.Config{}, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return xbind.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return xbind.Config{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return FromBytes(data, format)
}

// FromBytes 从字节数据解析 [xbind.Config]，需显式指定格式。
// 空数据返回零值配置——与读取空文件的行为一致。
func FromBytes(data []byte, format Format) (xbind.Config, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return xbind.Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	k := koanf.New(".")
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), parser); err != nil {
			return xbind.Config{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
		}
	}

	var cfg xbind.Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return xbind.Config{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return cfg, nil
}

// detectFormat 根据文件扩展名检测配置格式。
func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}
