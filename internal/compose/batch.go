package compose

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sceneforge/internal/services"
)

// BatchItem is one composition in a batch manifest.
type BatchItem struct {
	Images   []string `yaml:"images"`
	Audio    string   `yaml:"audio"`
	Script   string   `yaml:"script"`
	Captions string   `yaml:"captions"`
	Style    string   `yaml:"style"`
	Burn     bool     `yaml:"burn"`
	Catalog  bool     `yaml:"catalog"`
	Output   string   `yaml:"output"`
}

// Batch is a YAML manifest of compositions to run together.
type Batch struct {
	Items []BatchItem `yaml:"items"`
}

// LoadBatch parses a batch manifest from disk.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "compose", "load_batch", "read manifest", err)
	}
	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, services.Wrap(services.ErrValidation, "compose", "load_batch", "parse manifest", err)
	}
	if len(batch.Items) == 0 {
		return nil, services.Wrap(services.ErrValidation, "compose", "load_batch", "manifest has no items", nil)
	}
	for i, item := range batch.Items {
		if item.Output == "" {
			return nil, services.Wrap(services.ErrValidation, "compose", "load_batch",
				fmt.Sprintf("item %d missing output", i), nil)
		}
	}
	return &batch, nil
}

// Requests converts the batch into composer requests.
func (b *Batch) Requests() []Request {
	requests := make([]Request, 0, len(b.Items))
	for _, item := range b.Items {
		requests = append(requests, Request{
			Images:       item.Images,
			AudioPath:    item.Audio,
			Script:       item.Script,
			CaptionsPath: item.Captions,
			Style:        item.Style,
			Burn:         item.Burn,
			Catalog:      item.Catalog,
			OutputPath:   item.Output,
		})
	}
	return requests
}
