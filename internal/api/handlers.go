package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/pable/go-quiz-metrics/internal/aggregator"
	"github.com/pable/go-quiz-metrics/internal/model"
	"github.com/pable/go-quiz-metrics/internal/report"
)

type errorResponse struct {
	Error string `json:"error"`
}

type leaderboardResponse struct {
	Metric  string              `json:"metric"`
	Order   string              `json:"order"`
	Limit   int                 `json:"limit"`
	Entries []report.SummaryDoc `json:"entries"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":  "ok",
		"players": len(s.ds.Summaries),
		"events":  len(s.ds.Events),
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := s.parseLimit(q.Get("limit"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	metric := model.MetricTotalScore
	if name := q.Get("metric"); name != "" {
		if metric, err = aggregator.ParseMetric(name); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}
	order := model.Descending
	if name := q.Get("order"); name != "" {
		var ok bool
		if order, ok = model.LookupOrder(name); !ok {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid order %q (want asc or desc)", name))
			return
		}
	}

	rows, err := aggregator.Rank(s.ds.Summaries, metric, order, limit)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	render.JSON(w, r, leaderboardResponse{
		Metric:  metric.String(),
		Order:   order.String(),
		Limit:   limit,
		Entries: report.Summaries(rows),
	})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := s.parseLimit(q.Get("limit"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	minSamples := s.limits.MinSamples
	if raw := q.Get("min_samples"); raw != "" {
		minSamples, err = strconv.Atoi(raw)
		if err != nil || minSamples < 1 {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid min_samples %q", raw))
			return
		}
	}
	render.JSON(w, r, report.Speeds(aggregator.SpeedLeaderboard(s.ds.Events, minSamples, limit)))
}

func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	limit, err := s.parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	render.JSON(w, r, report.Summaries(aggregator.AccuracyLeaderboard(s.ds.Summaries, limit)))
}

func (s *Server) handleDifficulty(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, report.Difficulties(aggregator.Difficulty(s.ds.Events)))
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, report.Overview(aggregator.Overview(s.ds)))
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, aggregator.Players(s.ds.Events))
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	name, err := playerParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid player name: %v", err))
		return
	}
	p, ok := aggregator.Profile(name, s.ds.Events, s.limits.RecentWindow)
	if !ok {
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("player %q not found", name))
		return
	}
	render.JSON(w, r, report.Profile(p))
}

// playerParam returns the decoded {name} segment. chi matches on the raw
// path when the request carries escapes such as %2F, so the param arrives
// still encoded in that case.
func playerParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}

// parseLimit applies the default for an empty value and rejects anything
// outside 1..MaxLimit.
func (s *Server) parseLimit(raw string) (int, error) {
	if raw == "" {
		return s.limits.DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	if s.limits.MaxLimit > 0 && n > s.limits.MaxLimit {
		return 0, fmt.Errorf("limit %d exceeds maximum %d", n, s.limits.MaxLimit)
	}
	return n, nil
}
