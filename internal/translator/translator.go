// Package translator reads and writes tag translation dictionaries stored as
// TOML files.
package translator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/mmcdole/panda/internal/domain"
)

// ErrEmpty indicates a dictionary without any translation
var ErrEmpty = errors.New("translator has no entries")

// Decode parses a TOML dictionary. Keys are "namespace:tag" pairs or bare
// namespaces. A missing updated_at is stamped with now.
func Decode(r io.Reader, now time.Time) (domain.Translator, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Translator{}, fmt.Errorf("read translator: %w", err)
	}

	var t domain.Translator
	if err := toml.Unmarshal(data, &t); err != nil {
		return domain.Translator{}, fmt.Errorf("parse translator: %w", err)
	}

	dict := make(map[string]string, len(t.Dict))
	for k, v := range t.Dict {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			dict[k] = v
		}
	}
	if len(dict) == 0 {
		return domain.Translator{}, ErrEmpty
	}
	t.Dict = dict
	t.Language = strings.TrimSpace(t.Language)
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	return t, nil
}

// Load reads a dictionary from path
func Load(path string, now time.Time) (domain.Translator, error) {
	file, err := os.Open(path)
	if err != nil {
		return domain.Translator{}, fmt.Errorf("open translator: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Decode(file, now)
}

// Save writes t to path, creating directories as needed
func Save(path string, t domain.Translator) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create translator dir: %w", err)
	}

	data, err := toml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal translator: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write translator: %w", err)
	}
	return nil
}

// TranslateTag translates a tag value, trying the namespaced key first
func TranslateTag(t domain.Translator, namespace, value string) string {
	if v, ok := t.Dict[namespace+":"+value]; ok && v != "" {
		return v
	}
	return t.Translate(value)
}
