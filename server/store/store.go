package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/izaksullivan/Blackjack-Trainer/server/drill"
	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

/* -----------------------------
   Session settings + progress
------------------------------*/

// SaveSettings upserts the rule set of a session, creating its row.
func (db *DB) SaveSettings(ctx context.Context, sessionID string, r engine.Rules) error {
	_, err := db.Exec(ctx, `
		INSERT INTO trainer_sessions(id, decks, dealer_rule, das, late_surrender, peek)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE
		   SET decks = EXCLUDED.decks,
		       dealer_rule = EXCLUDED.dealer_rule,
		       das = EXCLUDED.das,
		       late_surrender = EXCLUDED.late_surrender,
		       peek = EXCLUDED.peek,
		       updated_at = now()
	`, sessionID, r.Decks, string(r.Dealer), r.DAS, r.LateSurrender, r.Peek)
	return err
}

// LoadSettings returns ok=false when the session was never saved.
func (db *DB) LoadSettings(ctx context.Context, sessionID string) (r engine.Rules, ok bool, err error) {
	var dealer string
	err = db.QueryRow(ctx, `
		SELECT decks, dealer_rule, das, late_surrender, peek
		  FROM trainer_sessions WHERE id = $1
	`, sessionID).Scan(&r.Decks, &dealer, &r.DAS, &r.LateSurrender, &r.Peek)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return engine.Rules{}, false, nil
		}
		return engine.Rules{}, false, err
	}
	r.Dealer = engine.DealerRule(dealer)
	return r, true, nil
}

// SaveProgress stores the running totals. The session row must exist.
func (db *DB) SaveProgress(ctx context.Context, sessionID string, p drill.Progress) error {
	_, err := db.Exec(ctx, `
		UPDATE trainer_sessions
		   SET hands = $2,
		       correct = $3,
		       best_streak = $4,
		       flash_best = $5,
		       updated_at = now()
		 WHERE id = $1
	`, sessionID, p.Hands, p.Correct, p.BestStreak, p.FlashBest)
	return err
}

func (db *DB) LoadProgress(ctx context.Context, sessionID string) (p drill.Progress, ok bool, err error) {
	err = db.QueryRow(ctx, `
		SELECT hands, correct, best_streak, flash_best
		  FROM trainer_sessions WHERE id = $1
	`, sessionID).Scan(&p.Hands, &p.Correct, &p.BestStreak, &p.FlashBest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return drill.Progress{}, false, nil
		}
		return drill.Progress{}, false, err
	}
	return p, true, nil
}

// DeleteSession removes a session and, by cascade, its answer log. It
// reports whether a row existed.
func (db *DB) DeleteSession(ctx context.Context, sessionID string) (bool, error) {
	tag, err := db.Exec(ctx, `DELETE FROM trainer_sessions WHERE id = $1`, sessionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

/* -----------------------------
   Graded answers
------------------------------*/

type AnswerLog struct {
	RoundID   string    `json:"round_id"`
	CreatedAt time.Time `json:"created_at"`
	Player    []string  `json:"player"`
	Upcard    string    `json:"upcard"`
	Kind      string    `json:"kind"`
	Chosen    string    `json:"chosen"`
	Expected  string    `json:"expected"`
	Correct   bool      `json:"correct"`
	Reason    string    `json:"reason"`
}

// InsertAnswer records one graded strategy answer for review.
func (db *DB) InsertAnswer(ctx context.Context, sessionID string, a AnswerLog) error {
	_, err := db.Exec(ctx, `
		INSERT INTO answer_logs(
			session_id, round_id, player, upcard, kind,
			chosen, expected, correct, reason
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, sessionID, a.RoundID, a.Player, a.Upcard, a.Kind,
		a.Chosen, a.Expected, a.Correct, a.Reason)
	return err
}

// RecentAnswers returns up to limit answers, newest first.
func (db *DB) RecentAnswers(ctx context.Context, sessionID string, limit int) ([]AnswerLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(ctx, `
		SELECT round_id, created_at, player, upcard, kind, chosen, expected, correct, reason
		  FROM answer_logs
		 WHERE session_id = $1
		 ORDER BY id DESC
		 LIMIT $2
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AnswerLog{}
	for rows.Next() {
		var a AnswerLog
		if err := rows.Scan(&a.RoundID, &a.CreatedAt, &a.Player, &a.Upcard, &a.Kind,
			&a.Chosen, &a.Expected, &a.Correct, &a.Reason); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type KindAccuracy struct {
	Good  int `json:"good"`
	Total int `json:"total"`
}

func (ka KindAccuracy) Ratio() float64 {
	if ka.Total <= 0 {
		return 0
	}
	return float64(ka.Good) / float64(ka.Total)
}

// MarshalJSON adds the derived ratio next to the raw counts.
func (ka KindAccuracy) MarshalJSON() ([]byte, error) {
	type counts KindAccuracy
	return json.Marshal(struct {
		counts
		Ratio float64 `json:"ratio"`
	}{counts(ka), ka.Ratio()})
}

// AccuracyByKind groups a session's graded answers by hand kind
// (Pair, Soft, Hard).
func (db *DB) AccuracyByKind(ctx context.Context, sessionID string) (map[string]KindAccuracy, error) {
	rows, err := db.Query(ctx, `
		SELECT kind,
		       COUNT(*) FILTER (WHERE correct) AS good,
		       COUNT(*) AS total
		  FROM answer_logs
		 WHERE session_id = $1
		 GROUP BY kind
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := make(map[string]KindAccuracy)
	for rows.Next() {
		var kind string
		var ka KindAccuracy
		if err := rows.Scan(&kind, &ka.Good, &ka.Total); err != nil {
			return nil, err
		}
		res[kind] = ka
	}
	return res, rows.Err()
}
