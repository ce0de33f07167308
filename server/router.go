package main

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/izaksullivan/Blackjack-Trainer/server/drill"
	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
	"github.com/izaksullivan/Blackjack-Trainer/server/store"
	"github.com/izaksullivan/Blackjack-Trainer/server/strategy"
)

// embed the /web directory so the chart page ships in the binary
//
//go:embed web/*
var webFS embed.FS

var chartPage = template.Must(template.ParseFS(webFS, "web/chart.html"))

const dbTimeout = 5 * time.Second

type api struct {
	db       *store.DB // nil when running without a database
	sessions *drill.Manager
	defaults engine.Rules
	log      *log.Logger
}

func Router(db *store.DB, sessions *drill.Manager, defaults engine.Rules, logger *log.Logger) http.Handler {
	a := &api{db: db, sessions: sessions, defaults: defaults, log: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/chart", http.StatusFound)
	})
	r.Get("/chart", a.chartHTML)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.health)
		r.Post("/advice", a.advice)
		r.Get("/chart", a.chartJSON)

		r.Post("/sessions", a.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Delete("/", a.deleteSession)
			r.Get("/progress", a.withSession(a.progress))
			r.Get("/history", a.withSession(a.history))
			r.Put("/settings", a.withSession(a.updateSettings))

			r.Post("/deal", a.withSession(a.deal))
			r.Post("/answer", a.withSession(a.answer))
			r.Get("/explain", a.withSession(a.explain))

			r.Post("/stream", a.withSession(a.startStream))
			r.Post("/stream/next", a.withSession(a.nextStreamCard))
			r.Delete("/stream", a.withSession(a.stopStream))

			r.Post("/flash", a.withSession(a.newFlash))
			r.Post("/flash/check", a.withSession(a.checkFlash))
		})
	})
	return r
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"dur", time.Since(start).Round(time.Microsecond),
				"req", middleware.GetReqID(r.Context()),
			)
		})
	}
}

/* -----------------------------
   Stateless endpoints
------------------------------*/

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"ok": true, "db": a.db != nil, "sessions": a.sessions.Len()}
	if a.db != nil {
		ctx, cancel := withTimeout(r.Context(), dbTimeout)
		defer cancel()
		if err := a.db.Ping(ctx); err != nil {
			out["db_error"] = err.Error()
		}
	}
	writeJSON(w, out)
}

type adviceRequest struct {
	Player []engine.Card `json:"player"`
	Upcard string        `json:"upcard"`
	Rules  *engine.Rules `json:"rules,omitempty"`
}

// parseUpcard accepts a full card ("Kd") or a bare upcard token ("T", "10",
// "A"). Only the upcard's value matters to the decision.
func parseUpcard(s string) (engine.Card, error) {
	c, err := engine.ParseCard(s)
	if err == nil {
		return c, nil
	}
	v, verr := engine.ParseValue(strings.TrimSpace(s))
	if verr != nil {
		return engine.Card{}, err
	}
	switch v {
	case engine.ValueAce:
		return engine.NewCard(engine.Ace, engine.Spade)
	case engine.ValueTen:
		return engine.NewCard(engine.Ten, engine.Spade)
	}
	return engine.NewCard(engine.Rank(v), engine.Spade)
}

type adviceResponse struct {
	strategy.Advice
	Total int           `json:"total"`
	Soft  bool          `json:"soft"`
	Kind  strategy.Kind `json:"kind"`
}

func (a *api) advice(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rules := a.defaults
	if req.Rules != nil {
		rules = *req.Rules
	}
	up, err := parseUpcard(req.Upcard)
	if err != nil {
		writeError(w, err)
		return
	}
	h := engine.Hand(req.Player)
	adv, err := strategy.Advise(h, up, rules)
	if err != nil {
		writeError(w, err)
		return
	}
	t := h.Totals()
	writeJSON(w, adviceResponse{Advice: adv, Total: t.Total, Soft: t.Soft, Kind: strategy.Classify(h)})
}

// rulesFromQuery overlays decks, dealer, das, ls and peek query parameters
// on the defaults. The deck count is clamped like the settings form.
func (a *api) rulesFromQuery(r *http.Request) (engine.Rules, error) {
	q := r.URL.Query()
	rules := a.defaults
	if s := q.Get("decks"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return rules, badRequest{err}
		}
		rules.Decks = engine.ClampDecks(n)
	}
	if s := q.Get("dealer"); s != "" {
		d, err := engine.ParseDealerRule(s)
		if err != nil {
			return rules, err
		}
		rules.Dealer = d
	}
	for key, dst := range map[string]*bool{"das": &rules.DAS, "ls": &rules.LateSurrender, "peek": &rules.Peek} {
		s := q.Get(key)
		if s == "" {
			continue
		}
		v, err := strconv.ParseBool(s)
		if err != nil {
			return rules, &engine.ValidationError{Field: key, Value: s, Reason: "must be true or false"}
		}
		*dst = v
	}
	return rules, nil
}

func (a *api) chartJSON(w http.ResponseWriter, r *http.Request) {
	rules, err := a.rulesFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ch, err := strategy.GenerateChart(rules)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, ch)
}

func (a *api) chartHTML(w http.ResponseWriter, r *http.Request) {
	rules, err := a.rulesFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	ch, err := strategy.GenerateChart(rules)
	if err != nil {
		writeError(w, err)
		return
	}
	var body bytes.Buffer
	if err := ch.WriteHTML(&body); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = chartPage.Execute(w, struct {
		Rules engine.Rules
		Body  template.HTML
	}{rules, template.HTML(body.String())})
}

/* -----------------------------
   Sessions
------------------------------*/

type createSessionRequest struct {
	Rules *engine.Rules `json:"rules,omitempty"`
}

type sessionResponse struct {
	ID       string          `json:"id"`
	Rules    engine.Rules    `json:"rules"`
	Progress drill.Progress  `json:"progress"`
	Shoe     drill.ShoeState `json:"shoe"`
}

func (a *api) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rules := a.defaults
	if req.Rules != nil {
		rules = *req.Rules
	}
	s, err := a.sessions.Create(rules)
	if err != nil {
		writeError(w, err)
		return
	}
	if a.db != nil {
		ctx, cancel := withTimeout(r.Context(), dbTimeout)
		defer cancel()
		if err := a.db.SaveSettings(ctx, s.ID, rules); err != nil {
			a.log.Warn("save settings failed", "session", s.ID, "err", err)
		}
	}
	writeJSONStatus(w, http.StatusCreated, sessionResponse{ID: s.ID, Rules: rules, Progress: s.Progress(), Shoe: s.Shoe()})
}

// session finds a live session, falling back to a saved one in the database.
func (a *api) session(r *http.Request) (*drill.Session, error) {
	id := chi.URLParam(r, "id")
	s, err := a.sessions.Get(id)
	if err == nil || a.db == nil {
		return s, err
	}
	ctx, cancel := withTimeout(r.Context(), dbTimeout)
	defer cancel()
	rules, ok, err := a.db.LoadSettings(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, drill.ErrNoSession
	}
	p, _, err := a.db.LoadProgress(ctx, id)
	if err != nil {
		return nil, err
	}
	a.log.Info("session restored", "session", id)
	return a.sessions.Restore(id, rules, p)
}

// withSession resolves the {id} route parameter before calling fn.
func (a *api) withSession(fn func(w http.ResponseWriter, r *http.Request, s *drill.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := a.session(r)
		if err != nil {
			writeError(w, err)
			return
		}
		fn(w, r, s)
	}
}

func (a *api) saveProgress(ctx context.Context, s *drill.Session) {
	if a.db == nil {
		return
	}
	ctx, cancel := withTimeout(ctx, dbTimeout)
	defer cancel()
	if err := a.db.SaveProgress(ctx, s.ID, s.Progress()); err != nil {
		a.log.Warn("save progress failed", "session", s.ID, "err", err)
	}
}

func (a *api) progress(w http.ResponseWriter, r *http.Request, s *drill.Session) {
	writeJSON(w, sessionResponse{ID: s.ID, Rules: s.Rules(), Progress: s.Progress(), Shoe: s.Shoe()})
}

// deleteSession drops the live session and its saved row. It is a 404 only
// when neither existed.
func (a *api) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, err := a.sessions.Get(id)
	removed := err == nil
	a.sessions.Delete(id)
	if a.db != nil {
		ctx, cancel := withTimeout(r.Context(), dbTimeout)
		defer cancel()
		ok, err := a.db.DeleteSession(ctx, id)
		if err != nil {
			a.log.Warn("delete session failed", "session", id, "err", err)
		}
		removed = removed || ok
	}
	if !removed {
		writeError(w, drill.ErrNoSession)
		return
	}
	a.log.Info("session deleted", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) history(w http.ResponseWriter, r *http.Request, s *drill.Session) {
	out := map[string]any{"answers": []store.AnswerLog{}, "by_kind": map[string]store.KindAccuracy{}}
	if a.db != nil {
		ctx, cancel := withTimeout(r.Context(), dbTimeout)
		defer cancel()
		answers, err := a.db.RecentAnswers(ctx, s.ID, atoiDef(r.URL.Query().Get("limit"), 20))
		if err != nil {
			writeError(w, err)
			return
		}
		byKind, err := a.db.AccuracyByKind(ctx, s.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		out["answers"], out["by_kind"] = answers, byKind
	}
	writeJSON(w, out)
}

// settingsForm is a partial rules update; omitted fields keep their value.
type settingsForm struct {
	Decks         *int    `json:"decks"`
	Dealer        *string `json:"dealer_rule"`
	DAS           *bool   `json:"das"`
	LateSurrender *bool   `json:"late_surrender"`
	Peek          *bool   `json:"peek"`
}

func (f settingsForm) apply(r engine.Rules) (engine.Rules, error) {
	if f.Decks != nil {
		r.Decks = engine.ClampDecks(*f.Decks)
	}
	if f.Dealer != nil {
		d, err := engine.ParseDealerRule(*f.Dealer)
		if err != nil {
			return r, err
		}
		r.Dealer = d
	}
	if f.DAS != nil {
		r.DAS = *f.DAS
	}
	if f.LateSurrender != nil {
		r.LateSurrender = *f.LateSurrender
	}
	if f.Peek != nil {
		r.Peek = *f.Peek
	}
	return r, nil
}

func (a *api) updateSettings(w http.ResponseWriter, r *http.Request, s *drill.Session) {
	var form settingsForm
	if err := readJSON(r, &form); err != nil {
		writeError(w, err)
		return
	}
	rules, err := form.apply(s.Rules())
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.UpdateRules(rules); err != nil {
		writeError(w, err)
		return
	}
	if a.db != nil {
		ctx, cancel := withTimeout(r.Context(), dbTimeout)
		defer cancel()
		if err := a.db.SaveSettings(ctx, s.ID, rules); err != nil {
			a.log.Warn("save settings failed", "session", s.ID, "err", err)
		}
	}
	writeJSON(w, map[string]any{"rules": rules})
}

/* -----------------------------
   Strategy drill
------------------------------*/

func (a *api) deal(w http.ResponseWriter, r *http.Request, s *drill.Session) {
	writeJSON(w, s.Deal())
}

type answerRequest struct {
	Action string `json:"action"`
}

func (a *api) answer(w http.ResponseWriter, r *http.Request, s *drill.Session) {
	var req answerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	act, err := strategy.ParseAction(req.Action)
	if err != nil {
		writeError(w, badRequest{err})
		return
	}
	res, err := s.Answer(act)
	if err != nil {
		writeError(w, err)
		return
	}
	a.saveProgress(r.Context(), s)
	if a.db != nil {
		ctx, cancel := withTimeout(r.Context(), dbTimeout)
		defer cancel()
		entry := store.AnswerLog{
			RoundID:  res.Round.ID,
			Player:   res.Round.Player.Strings(),
			Upcard:   res.Round.Upcard.String(),
			Kind:     string(res.Round.Kind),
			Chosen:   string(res.Chosen),
			Expected: string(res.Advice.Action),
			Correct:  res.Correct,
			Reason:   res.Advice.Reason,
		}
		if err := a.db.InsertAnswer(ctx, s.ID, entry); err != nil {
			a.log.Warn("answer log failed", "session", s.ID, "err", err)
		}
	}
	writeJSON(w, res)
}

func (a *api) explain(w http.ResponseWriter, r *http.Request, s *drill.Session) {
	adv, err := s.Explain()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, adv)
}

/* -----------------------------
   Counting drills
------------------------------*/

type streamRequest struct {
	Decks int `json:"decks"`
}

func (a *api) startStream(w http.ResponseWriter, r *http.Request, s *drill.Session) {
	req := streamRequest{Decks: s.Rules().Decks}
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Decks <= 0 {
		writeError(w, &engine.ValidationError{Field: "decks", Value: req.Decks, Reason: "must be positive"})
		return
	}
	snap, err := s.StartStream(engine.ClampDecks(req.Decks))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, snap)
}

func (a *api) nextStreamCard(w http.ResponseWriter, r *http.Request, s *drill.Session) {
	step, err := s.NextStreamCard()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, step)
}

func (a *api) stopStream(w http.ResponseWriter, r *http.Request, s *drill.Session) {
	s.StopStream()
	w.WriteHeader(http.StatusNoContent)
}

type flashRequest struct {
	N int `json:"n"`
}

func (a *api) newFlash(w http.ResponseWriter, r *http.Request, s *drill.Session) {
	var req flashRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s.NewFlash(req.N))
}

type flashCheckRequest struct {
	Count *int `json:"count"`
}

func (a *api) checkFlash(w http.ResponseWriter, r *http.Request, s *drill.Session) {
	var req flashCheckRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Count == nil {
		writeError(w, badRequest{errors.New("count is required")})
		return
	}
	res, err := s.CheckFlash(*req.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	if res.Correct {
		a.saveProgress(r.Context(), s)
	}
	writeJSON(w, res)
}

/* -----------------------------
   Helpers
------------------------------*/

type badRequest struct{ error }

func (e badRequest) Unwrap() error { return e.error }

func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return badRequest{err}
	}
	return nil
}

func statusFor(err error) int {
	var (
		br  badRequest
		ve  *engine.ValidationError
		ice *engine.InvalidCardError
	)
	switch {
	case errors.As(err, &br), errors.As(err, &ve), errors.As(err, &ice),
		errors.Is(err, strategy.ErrHandSize):
		return http.StatusBadRequest
	case errors.Is(err, drill.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, drill.ErrNoRound), errors.Is(err, drill.ErrRoundAnswered),
		errors.Is(err, drill.ErrNoStream), errors.Is(err, drill.ErrNoFlash):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	writeJSONStatus(w, statusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) { writeJSONStatus(w, http.StatusOK, v) }

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}
