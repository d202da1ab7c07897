package lookup

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/tyler180/fbref-pizza/internal/logging"
)

// PlayerRecord is one row of the lookup table. Name is NFKD-normalized.
type PlayerRecord struct {
	Name   string
	League string
	Team   string
	Link   string
}

// Store maps normalized display names to player records. It is read-only
// after construction and safe to share between goroutines.
type Store struct {
	byName  map[string]PlayerRecord
	records []PlayerRecord
	logger  *slog.Logger
}

// NewStore indexes records by normalized name. Rows without a name or link
// are skipped; for duplicate names the first row wins.
func NewStore(records []PlayerRecord, logger *slog.Logger) *Store {
	s := &Store{
		byName:  make(map[string]PlayerRecord, len(records)),
		records: make([]PlayerRecord, 0, len(records)),
		logger:  logger,
	}
	for _, r := range records {
		r.Name = Normalize(r.Name)
		if r.Name == "" || r.Link == "" {
			continue
		}
		if _, dup := s.byName[r.Name]; dup {
			logging.Debug(logger, "duplicate player row ignored", logging.FieldPlayer, r.Name)
			continue
		}
		s.byName[r.Name] = r
		s.records = append(s.records, r)
	}
	return s
}

func (s *Store) Len() int { return len(s.records) }

// Resolve normalizes name and returns the matching record. A miss is an
// expected outcome (stale selection) and yields ErrNotFound.
func (s *Store) Resolve(name string) (PlayerRecord, error) {
	key := Normalize(name)
	if r, ok := s.byName[key]; ok {
		return r, nil
	}
	logging.Warn(s.logger, "player not found in lookup table", logging.FieldPlayer, key)
	return PlayerRecord{}, fmt.Errorf("%w: %q", ErrNotFound, key)
}

// Leagues returns the distinct leagues, sorted.
func (s *Store) Leagues() []string {
	set := make(map[string]struct{})
	for _, r := range s.records {
		set[r.League] = struct{}{}
	}
	return sortedKeys(set)
}

// Teams returns the distinct teams of a league, sorted.
func (s *Store) Teams(league string) []string {
	set := make(map[string]struct{})
	for _, r := range s.records {
		if r.League == league {
			set[r.Team] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Players returns the player names of a team, sorted.
func (s *Store) Players(team string) []string {
	out := make([]string, 0, 32)
	for _, r := range s.records {
		if r.Team == team {
			out = append(out, r.Name)
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Records returns the stored rows in load order.
func (s *Store) Records() []PlayerRecord {
	return append([]PlayerRecord(nil), s.records...)
}
