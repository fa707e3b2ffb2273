package gateway

import (
	"context"
	"encoding/json"
	"fmt"
)

// Material status codes as defined by the inventory service.
const (
	MaterialAvailable   = 0
	MaterialBorrowed    = 1
	MaterialMaintenance = 2
)

// Material mirrors the inventory's entity. Raw carries the service's
// payload verbatim for enrichment pass-through.
type Material struct {
	MaterialID     int64  `json:"materialId"`
	MaterialName   string `json:"materialName"`
	MaterialStatus int    `json:"materialStatus"`

	Raw json.RawMessage `json:"-"`
}

type MaterialGateway struct {
	c *caller
}

func NewMaterialGateway(baseURL string) *MaterialGateway {
	return &MaterialGateway{c: newCaller(baseURL, "material")}
}

// GetMaterial returns nil, nil when the material does not exist.
func (g *MaterialGateway) GetMaterial(ctx context.Context, id int64) (*Material, error) {
	raw, err := g.c.get(ctx, fmt.Sprintf("/materials/%d", id))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var m Material
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, &TransportError{Service: g.c.service, Kind: KindConnection, Err: err}
	}
	m.Raw = raw
	return &m, nil
}

// CheckAvailable reports whether the material exists and is free to lend.
// Fail-closed: any lookup failure degrades to "not available" rather than
// propagating, so an unreachable inventory reads as a conflict, never as a
// silent success.
func (g *MaterialGateway) CheckAvailable(ctx context.Context, id int64) (bool, *Material) {
	m, err := g.GetMaterial(ctx, id)
	if err != nil || m == nil {
		return false, nil
	}
	return m.MaterialStatus == MaterialAvailable, m
}

// UpdateStatus writes the material's status in the inventory service.
func (g *MaterialGateway) UpdateStatus(ctx context.Context, id int64, status int) error {
	payload := map[string]int{"materialStatus": status}
	return g.c.put(ctx, fmt.Sprintf("/materials/%d", id), payload)
}

func (g *MaterialGateway) MarkBorrowed(ctx context.Context, id int64) error {
	return g.UpdateStatus(ctx, id, MaterialBorrowed)
}

func (g *MaterialGateway) MarkAvailable(ctx context.Context, id int64) error {
	return g.UpdateStatus(ctx, id, MaterialAvailable)
}
