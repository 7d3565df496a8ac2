// Package sigprintdb persists emitted packets and fingerprints to a local
// SQLite database for offline review, and exposes an ad-hoc SQL console
// over that database for debugging.
package sigprintdb

import (
	"database/sql"
	"net/http"

	"github.com/google/uuid"
	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"

	"github.com/neuralbridge/sigprint-core/internal/sigprint"
)

// DB wraps a SQLite connection holding one recording session's worth of
// emitted packets and fingerprints.
type DB struct {
	*sql.DB

	SessionID string
}

// Open opens (or creates) the SQLite database at path and ensures its base
// schema exists, starting a fresh session id for this run.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = conn.Exec(`
		CREATE TABLE IF NOT EXISTS packets (
			session_id      TEXT,
			timestamp_ms    INTEGER,
			stage           INTEGER,
			stage_frequency INTEGER,
			coherence       DOUBLE,
			gate_flags      INTEGER,
			loop_flags      INTEGER,
			entropy         DOUBLE,
			recorded_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS fingerprints (
			session_id      TEXT,
			timestamp_ms    INTEGER,
			digits          TEXT,
			coherence       DOUBLE,
			entropy         DOUBLE,
			sequence_gate   BOOLEAN,
			sequence_loop   BOOLEAN,
			loop_period     INTEGER,
			recorded_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{DB: conn, SessionID: uuid.NewString()}, nil
}

// RecordPacket stores one decoded packet's header and fingerprint fields
// under the current session id.
func (db *DB) RecordPacket(p sigprint.DecodedPacket) error {
	_, err := db.Exec(
		`INSERT INTO packets (session_id, timestamp_ms, stage, stage_frequency, coherence, gate_flags, loop_flags, entropy)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		db.SessionID, p.TimestampMs, p.Stage, p.StageFrequency, p.Coherence, p.GateFlags, p.LoopFlags, p.Entropy,
	)
	return err
}

// RecordFingerprint stores one fingerprint's digits, coherence, and entropy
// under the current session id, along with the SequenceAnalyzer's
// annotation for this code (see internal/sigprint's SequenceAnalyzer: a
// supplemental, non-core layer over the digits, not a replacement for the
// core's own per-band gate/loop bitmasks already carried on the packets
// table). timestampMs identifies the tick this fingerprint was composed on.
func (db *DB) RecordFingerprint(timestampMs uint32, digits [20]int, coherence, entropy float64, seq sigprint.SequenceEvent) error {
	digitBytes := make([]byte, len(digits))
	for i, d := range digits {
		digitBytes[i] = byte('0' + d)
	}
	_, err := db.Exec(
		`INSERT INTO fingerprints (session_id, timestamp_ms, digits, coherence, entropy, sequence_gate, sequence_loop, loop_period)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		db.SessionID, timestampMs, string(digitBytes), coherence, entropy, seq.Gate, seq.LoopDetected, seq.LoopPeriod,
	)
	return err
}

// SessionSummary reports coherence/entropy statistics for a recorded
// session, used by the chart tool.
type SessionSummary struct {
	TimestampMs []int64
	Coherence   []float64
	Entropy     []float64
}

// LoadSession reads every packet row for sessionID in timestamp order.
func (db *DB) LoadSession(sessionID string) (SessionSummary, error) {
	var out SessionSummary
	rows, err := db.Query(
		`SELECT timestamp_ms, coherence, entropy FROM packets WHERE session_id = ? ORDER BY timestamp_ms ASC`,
		sessionID,
	)
	if err != nil {
		return out, err
	}
	defer rows.Close()

	for rows.Next() {
		var ts int64
		var coherence, entropy float64
		if err := rows.Scan(&ts, &coherence, &entropy); err != nil {
			return out, err
		}
		out.TimestampMs = append(out.TimestampMs, ts)
		out.Coherence = append(out.Coherence, coherence)
		out.Entropy = append(out.Entropy, entropy)
	}
	return out, rows.Err()
}

// AttachAdminRoutes mounts a debug-only tailsql console over this database
// on mux, so an operator can run ad-hoc SQL against recorded sessions.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) error {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return err
	}
	tsql.SetDB("sqlite://sigprint.db", db.DB, &tailsql.DBOptions{
		Label: "SIGPRINT recordings",
	})

	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())
	return nil
}
