package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/liangxing/matchsite/backend/content"
	"github.com/liangxing/matchsite/backend/directory"
	"github.com/liangxing/matchsite/backend/store"
)

// Catalog is the member collection for the lifetime of the process. It is
// built once and never mutated, so sessions share it without locking.
type Catalog struct {
	members []directory.Candidate
	byID    map[int]directory.Candidate
}

func NewCatalog(members []directory.Candidate) (*Catalog, error) {
	if err := content.ValidateMembers(members); err != nil {
		return nil, err
	}
	c := &Catalog{
		members: append([]directory.Candidate(nil), members...),
		byID:    make(map[int]directory.Candidate, len(members)),
	}
	for _, m := range c.members {
		c.byID[m.ID] = m
	}
	return c, nil
}

// All returns the members in seed order. Callers must not modify the slice.
func (c *Catalog) All() []directory.Candidate { return c.members }

func (c *Catalog) Len() int { return len(c.members) }

func (c *Catalog) Get(id int) (directory.Candidate, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// loadCatalog reads the members table when a database is configured and the
// embedded seed otherwise.
func loadCatalog(ctx context.Context, cfg Config, log zerolog.Logger) (*Catalog, error) {
	if cfg.DatabaseURL == "" {
		members, err := content.LoadMembers()
		if err != nil {
			return nil, err
		}
		log.Info().Int("members", len(members)).Msg("Member catalog loaded from embedded seed")
		return NewCatalog(members)
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	s, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	members, err := s.LoadCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("members table is empty, run db-seeder first")
	}
	log.Info().Int("members", len(members)).Msg("Member catalog loaded from database")
	return NewCatalog(members)
}
