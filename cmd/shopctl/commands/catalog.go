package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"shopassist/internal/model"
)

// fileCatalog serves a catalog loaded from disk to the search service
type fileCatalog struct {
	products []model.ProductRecord
}

// loadCatalog reads a JSON or YAML list of products. The format follows the
// file extension; unknown extensions are tried as YAML, which accepts JSON too.
func loadCatalog(path string) (*fileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var products []model.ProductRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &products)
	default:
		err = yaml.Unmarshal(data, &products)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", filepath.Base(path), err)
	}
	return newFileCatalog(products), nil
}

func newFileCatalog(products []model.ProductRecord) *fileCatalog {
	for i := range products {
		products[i].SanitizeExtras()
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return &fileCatalog{products: products}
}

// GetCandidates returns in-stock products. A record without a retailer id
// belongs to every retailer.
func (c *fileCatalog) GetCandidates(_ context.Context, retailerID string) ([]model.ProductRecord, error) {
	out := make([]model.ProductRecord, 0, len(c.products))
	for _, p := range c.products {
		if !p.InStock() {
			continue
		}
		if p.RetailerID != "" && p.RetailerID != retailerID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
