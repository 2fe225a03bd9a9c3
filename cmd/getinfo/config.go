package main

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gethiox/sentral/internal/pkg/logger"
)

//go:embed sentral-config/sentral.config
//go:embed sentral-config/profile.yaml
var templateConfig embed.FS

const (
	templateDir = "sentral-config"
	programFile = "sentral.config"
	profileFile = "profile.yaml"
)

// createConfigDirectoryIfNeeded writes the default config files into dir.
// Existing files stay intact.
func createConfigDirectoryIfNeeded(dir string) error {
	err := os.MkdirAll(dir, 0o777)
	if err != nil {
		return fmt.Errorf("cannot create \"%s\" directory: %w", dir, err)
	}

	return fs.WalkDir(templateConfig, templateDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		dstPath := filepath.Join(dir, d.Name())
		dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o666)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				return nil
			}
			return fmt.Errorf("cannot open \"%s\" file: %w", dstPath, err)
		}
		defer dst.Close()

		data, err := fs.ReadFile(templateConfig, path)
		if err != nil {
			return fmt.Errorf("cannot read \"%s\" template file: %w", path, err)
		}

		_, err = dst.Write(data)
		if err != nil {
			return fmt.Errorf("cannot write data into \"%s\" file: %w", dstPath, err)
		}

		log.Info(fmt.Sprintf("Created \"%s\" file", dstPath), logger.Info)
		return nil
	})
}
