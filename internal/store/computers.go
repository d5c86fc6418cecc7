package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Computer is the persisted registration record for one machine.Computer
// the daemon manages, grounded in the teacher's Agent/UpsertAgent.
type Computer struct {
	Name          string
	Address       string
	MemoryCeiling int64
	RegisteredAt  time.Time
	LastSeen      *time.Time
}

func (s *Store) UpsertComputer(c *Computer) error {
	_, err := s.db.Exec(`INSERT INTO computers (name, address, memory_ceiling)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			address = excluded.address,
			memory_ceiling = excluded.memory_ceiling`,
		c.Name, c.Address, c.MemoryCeiling)
	if err != nil {
		return fmt.Errorf("upsert computer: %w", err)
	}
	return nil
}

func (s *Store) GetComputer(name string) (*Computer, error) {
	c := &Computer{}
	err := s.db.QueryRow(`SELECT name, address, memory_ceiling, registered_at, last_seen
		FROM computers WHERE name = ?`, name).Scan(
		&c.Name, &c.Address, &c.MemoryCeiling, &c.RegisteredAt, &c.LastSeen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get computer: %w", err)
	}
	return c, nil
}

func (s *Store) ListComputers() ([]*Computer, error) {
	rows, err := s.db.Query(`SELECT name, address, memory_ceiling, registered_at, last_seen
		FROM computers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list computers: %w", err)
	}
	defer rows.Close()
	var out []*Computer
	for rows.Next() {
		c := &Computer{}
		if err := rows.Scan(&c.Name, &c.Address, &c.MemoryCeiling, &c.RegisteredAt, &c.LastSeen); err != nil {
			return nil, fmt.Errorf("scan computer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) TouchComputer(name string, seenAt time.Time) error {
	_, err := s.db.Exec("UPDATE computers SET last_seen = ? WHERE name = ?", seenAt.UTC(), name)
	return err
}
