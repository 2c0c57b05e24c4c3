package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Subject is an entry in a user's subject vocabulary.
type Subject struct {
	ID         string         `db:"id" json:"id"`
	UserID     string         `db:"user_id" json:"user_id"`
	Name       string         `db:"name" json:"name"`
	RawAliases types.JSONText `db:"raw_aliases" json:"raw_aliases"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// Aliases decodes the raw alias list. Malformed payloads decode as empty.
func (s *Subject) Aliases() []string {
	var aliases []string
	if len(s.RawAliases) == 0 {
		return aliases
	}
	if err := s.RawAliases.Unmarshal(&aliases); err != nil {
		return nil
	}
	return aliases
}

// AddAlias appends raw to the alias list when missing and reports whether it changed.
func (s *Subject) AddAlias(raw string) (bool, error) {
	aliases := s.Aliases()
	for _, alias := range aliases {
		if alias == raw {
			return false, nil
		}
	}
	aliases = append(aliases, raw)
	encoded, err := json.Marshal(aliases)
	if err != nil {
		return false, err
	}
	s.RawAliases = types.JSONText(encoded)
	return true, nil
}
