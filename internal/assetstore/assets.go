package assetstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"sceneforge/internal/fileutil"
	"sceneforge/internal/services"
)

// Asset kinds stored in the catalogue.
const (
	KindImage    = "image"
	KindAudio    = "audio"
	KindVideo    = "video"
	KindCaptions = "captions"
)

// Asset is one catalogued file.
type Asset struct {
	ID           string
	Kind         string
	Path         string
	OriginalName string
	SizeBytes    int64
	CreatedAt    time.Time
}

func validKind(kind string) bool {
	switch kind {
	case KindImage, KindAudio, KindVideo, KindCaptions:
		return true
	}
	return false
}

// Import copies sourcePath into the library and records it under a fresh
// identifier.
func (s *Store) Import(ctx context.Context, sourcePath, kind string) (Asset, error) {
	if !validKind(kind) {
		return Asset{}, services.Wrap(services.ErrValidation, "assetstore", "import",
			fmt.Sprintf("unknown asset kind %q", kind), nil)
	}
	info, err := os.Stat(sourcePath)
	if err != nil {
		return Asset{}, services.Wrap(services.ErrValidation, "assetstore", "import", "stat source", err)
	}
	if info.IsDir() {
		return Asset{}, services.Wrap(services.ErrValidation, "assetstore", "import",
			fmt.Sprintf("%q is a directory", sourcePath), nil)
	}

	asset := Asset{
		ID:           uuid.NewString(),
		Kind:         kind,
		OriginalName: filepath.Base(sourcePath),
		SizeBytes:    info.Size(),
		CreatedAt:    time.Now().UTC(),
	}
	asset.Path = filepath.Join(s.libraryDir, asset.ID+strings.ToLower(filepath.Ext(sourcePath)))

	if err := fileutil.CopyFile(sourcePath, asset.Path); err != nil {
		return Asset{}, fmt.Errorf("copy into library: %w", err)
	}

	err = s.execWithRetry(ctx,
		`INSERT INTO assets (id, kind, path, original_name, size_bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		asset.ID, asset.Kind, asset.Path, asset.OriginalName, asset.SizeBytes,
		asset.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		_ = os.Remove(asset.Path)
		return Asset{}, fmt.Errorf("record asset: %w", err)
	}
	return asset, nil
}

// Get resolves an asset by identifier.
func (s *Store) Get(ctx context.Context, id string) (Asset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, path, original_name, size_bytes, created_at FROM assets WHERE id = ?`, id)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Asset{}, services.Wrap(services.ErrNotFound, "assetstore", "get",
			fmt.Sprintf("asset %q", id), nil)
	}
	if err != nil {
		return Asset{}, fmt.Errorf("load asset %q: %w", id, err)
	}
	return asset, nil
}

// List returns catalogued assets, newest first. An empty kind matches all.
func (s *Store) List(ctx context.Context, kind string) ([]Asset, error) {
	if kind != "" && !validKind(kind) {
		return nil, services.Wrap(services.ErrValidation, "assetstore", "list",
			fmt.Sprintf("unknown asset kind %q", kind), nil)
	}

	query := `SELECT id, kind, path, original_name, size_bytes, created_at FROM assets`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// Remove deletes the catalogue record and, best effort, the library file.
func (s *Store) Remove(ctx context.Context, id string) error {
	asset, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.execWithRetry(ctx, `DELETE FROM assets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete asset %q: %w", id, err)
	}
	_ = os.Remove(asset.Path)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (Asset, error) {
	var asset Asset
	var createdAt string
	if err := row.Scan(&asset.ID, &asset.Kind, &asset.Path, &asset.OriginalName, &asset.SizeBytes, &createdAt); err != nil {
		return Asset{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Asset{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	asset.CreatedAt = parsed
	return asset, nil
}
