// Package storage stages order transfer files on the local filesystem
// before an outbound transfer picks them up.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/export"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

var _ ports.OrderStorage = (*Filesystem)(nil)

// Filesystem writes each order's transfer file into a staging directory.
// The file is rendered from the configured order file template; when none
// has been stored yet the bootstrap default applies.
type Filesystem struct {
	dir       string
	exporter  *export.Exporter
	templates ports.OrderFileTemplateRepository
}

func NewFilesystem(dir string, exporter *export.Exporter, templates ports.OrderFileTemplateRepository) (*Filesystem, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	return &Filesystem{dir: dir, exporter: exporter, templates: templates}, nil
}

func (f *Filesystem) template(ctx context.Context) (*domain.OrderFileTemplate, error) {
	template, err := f.templates.Get(ctx)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.DefaultTemplate(), nil
	}
	return template, err
}

// Path reports where the order's staged file lives. The name combines the
// template's file prefix with the order code.
func (f *Filesystem) Path(ctx context.Context, order *domain.Order) (string, error) {
	template, err := f.template(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.dir, template.FilePrefix+order.OrderCode+".csv"), nil
}

func (f *Filesystem) Store(ctx context.Context, order *domain.Order) error {
	template, err := f.template(ctx)
	if err != nil {
		return err
	}
	path := filepath.Join(f.dir, template.FilePrefix+order.OrderCode+".csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("stage order file: %w", err)
	}
	if err := f.exporter.WriteTemplate(ctx, order, template, file); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("render order file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("stage order file: %w", err)
	}
	return nil
}

func (f *Filesystem) Delete(ctx context.Context, order *domain.Order) error {
	path, err := f.Path(ctx, order)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove staged order file: %w", err)
	}
	return nil
}
