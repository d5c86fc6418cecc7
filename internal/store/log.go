package store

import (
	"fmt"
	"time"
)

// EventEntry is one row of a computer's audit trail: boot, shutdown,
// reboot, or crash, grounded in the teacher's LogEntry/task_log.
type EventEntry struct {
	ID           int64
	ComputerName string
	Timestamp    time.Time
	Event        string
	Detail       *string
}

func (s *Store) AppendEvent(computerName, event string, detail *string) error {
	_, err := s.db.Exec("INSERT INTO computer_events (computer_name, event, detail) VALUES (?, ?, ?)", computerName, event, detail)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (s *Store) ListEventsByComputer(computerName string) ([]*EventEntry, error) {
	rows, err := s.db.Query(`SELECT id, computer_name, timestamp, event, detail
		FROM computer_events WHERE computer_name = ? ORDER BY timestamp`, computerName)
	if err != nil {
		return nil, fmt.Errorf("list events by computer: %w", err)
	}
	defer rows.Close()
	var entries []*EventEntry
	for rows.Next() {
		e := &EventEntry{}
		if err := rows.Scan(&e.ID, &e.ComputerName, &e.Timestamp, &e.Event, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan event entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
