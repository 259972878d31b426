// Package repository loads the applicant risk-profile table from its
// configured backing store.
package repository

import (
	"context"

	"github.com/okian/loandecision/internal/domain/risk"
)

// ProfileSource produces the risk table. Sources are read once at startup;
// the resulting table is never refreshed while serving.
type ProfileSource interface {
	Load(ctx context.Context) (risk.Table, error)
}

// StaticSource serves profiles supplied by configuration.
type StaticSource struct {
	profiles map[string]int
}

// NewStaticSource creates a source over profiles. The map is copied on Load.
func NewStaticSource(profiles map[string]int) *StaticSource {
	return &StaticSource{profiles: profiles}
}

// Load builds the table from the configured map.
func (s *StaticSource) Load(_ context.Context) (risk.Table, error) {
	return risk.NewTable(s.profiles)
}
