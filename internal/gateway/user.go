package gateway

import (
	"context"
	"encoding/json"
	"fmt"
)

// User mirrors the user directory's entity. Raw carries the service's
// payload verbatim for enrichment pass-through.
type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	RoleID int64  `json:"roleId"`

	Raw json.RawMessage `json:"-"`
}

type UserGateway struct {
	c *caller
}

func NewUserGateway(baseURL string) *UserGateway {
	return &UserGateway{c: newCaller(baseURL, "user")}
}

// GetUser returns nil, nil when the user does not exist.
func (g *UserGateway) GetUser(ctx context.Context, id int64) (*User, error) {
	raw, err := g.c.get(ctx, fmt.Sprintf("/users/%d", id))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, &TransportError{Service: g.c.service, Kind: KindConnection, Err: err}
	}
	u.Raw = raw
	return &u, nil
}

// Exists collapses every failure to false: a directory that cannot be
// reached must not let a borrow through.
func (g *UserGateway) Exists(ctx context.Context, id int64) bool {
	u, err := g.GetUser(ctx, id)
	return err == nil && u != nil
}
