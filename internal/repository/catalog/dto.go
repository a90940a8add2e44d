package catalog

import (
	"time"

	"github.com/kailas-cloud/folio/internal/domain/item"
)

// itemDTO is the JSON shape of an item stored as a hash field value.
type itemDTO struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Category     string   `json:"category"`
	Code         string   `json:"code,omitempty"`
	Featured     bool     `json:"featured,omitempty"`
	URL          string   `json:"url,omitempty"`
	CreatedAt    int64    `json:"created_at"`
	UpdatedAt    int64    `json:"updated_at"`
}

func toDTO(it item.Item) itemDTO {
	return itemDTO{
		ID:           it.ID(),
		Title:        it.Title(),
		Description:  it.Description(),
		Technologies: it.Technologies(),
		Category:     it.Category(),
		Code:         it.Code(),
		Featured:     it.Featured(),
		URL:          it.URL(),
		CreatedAt:    it.CreatedAt().UnixMilli(),
		UpdatedAt:    it.UpdatedAt().UnixMilli(),
	}
}

func (d itemDTO) toItem(kind item.Kind) item.Item {
	return item.Reconstruct(d.ID, kind, item.Fields{
		Title:        d.Title,
		Description:  d.Description,
		Technologies: d.Technologies,
		Category:     d.Category,
		Code:         d.Code,
		Featured:     d.Featured,
		URL:          d.URL,
	}, time.UnixMilli(d.CreatedAt).UTC(), time.UnixMilli(d.UpdatedAt).UTC())
}
