package store

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/izaksullivan/Blackjack-Trainer/server/drill"
	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
)

func TestSchemaEmbedded(t *testing.T) {
	b, err := schema.ReadFile("schema.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	for _, table := range []string{"trainer_sessions", "answer_logs"} {
		if !strings.Contains(string(b), table) {
			t.Fatalf("schema missing %s", table)
		}
	}
}

func TestKindAccuracyRatio(t *testing.T) {
	if got := (KindAccuracy{}).Ratio(); got != 0 {
		t.Fatalf("empty ratio = %v", got)
	}
	if got := (KindAccuracy{Good: 3, Total: 4}).Ratio(); got != 0.75 {
		t.Fatalf("ratio = %v", got)
	}
}

func TestKindAccuracyJSON(t *testing.T) {
	b, err := json.Marshal(map[string]KindAccuracy{"Pair": {Good: 1, Total: 4}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"Pair":{"good":1,"total":4,"ratio":0.25}}`
	if string(b) != want {
		t.Fatalf("json = %s, want %s", b, want)
	}
}

// Runs against a real Postgres when TEST_DATABASE_URL is set.
func TestRoundTrip(t *testing.T) {
	dsn := strings.TrimSpace(os.Getenv("TEST_DATABASE_URL"))
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close(ctx)
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	id := uuid.NewString()
	defer db.DeleteSession(ctx, id)

	if _, ok, err := db.LoadSettings(ctx, id); err != nil || ok {
		t.Fatalf("fresh session: ok=%v err=%v", ok, err)
	}

	rules := engine.Rules{Decks: 2, Dealer: engine.H17, DAS: false, LateSurrender: true, Peek: true}
	if err := db.SaveSettings(ctx, id, rules); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	got, ok, err := db.LoadSettings(ctx, id)
	if err != nil || !ok || got != rules {
		t.Fatalf("load settings = %+v ok=%v err=%v", got, ok, err)
	}

	p := drill.Progress{Hands: 12, Correct: 10, BestStreak: 7, FlashBest: 16}
	if err := db.SaveProgress(ctx, id, p); err != nil {
		t.Fatalf("save progress: %v", err)
	}
	gp, ok, err := db.LoadProgress(ctx, id)
	if err != nil || !ok || gp != p {
		t.Fatalf("load progress = %+v ok=%v err=%v", gp, ok, err)
	}

	for i, correct := range []bool{true, false, true} {
		a := AnswerLog{
			RoundID: uuid.NewString(), Player: []string{"8♠", "8♥"}, Upcard: "A♦",
			Kind: "Pair", Chosen: "SPLIT", Expected: "SPLIT", Correct: correct,
			Reason: "Pair of 8s vs A: split.",
		}
		if i == 1 {
			a.Chosen = "HIT"
		}
		if err := db.InsertAnswer(ctx, id, a); err != nil {
			t.Fatalf("insert answer: %v", err)
		}
	}
	recent, err := db.RecentAnswers(ctx, id, 2)
	if err != nil || len(recent) != 2 {
		t.Fatalf("recent = %d err=%v", len(recent), err)
	}
	acc, err := db.AccuracyByKind(ctx, id)
	if err != nil {
		t.Fatalf("accuracy: %v", err)
	}
	if acc["Pair"] != (KindAccuracy{Good: 2, Total: 3}) {
		t.Fatalf("pair accuracy = %+v", acc["Pair"])
	}

	if ok, err := db.DeleteSession(ctx, id); err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	if _, ok, err := db.LoadSettings(ctx, id); err != nil || ok {
		t.Fatalf("deleted session still loads: ok=%v err=%v", ok, err)
	}
}
