// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
//   - GET /daily             → today's date key and whether the caller already played
//   - GET /daily/leaderboard → top 20 signed-in winners for today (or ?date=YYYY-MM-DD)
//
// Daily sessions themselves are created through POST /game/new {"mode":"daily"};
// every daily session on a given date shares the same secret.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/palavramestre/internal/store"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyInfo)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// dailyInfoRes is returned by GET /daily.
type dailyInfoRes struct {
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

func (s *Server) handleDailyInfo(w http.ResponseWriter, r *http.Request) {
	res := dailyInfoRes{Date: s.daily.Date()}
	if me := currentUser(r); me != nil && s.results != nil {
		played, err := s.results.DailyAlreadyPlayed(r.Context(), me.ID, res.Date)
		if err != nil {
			log.Error().Err(err).Msg("daily already played")
			writeErr(w, http.StatusInternalServerError, "db_error")
			return
		}
		res.Played = played
	}
	writeJSON(w, http.StatusOK, res)
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []store.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeJSON(w, http.StatusOK, lbRes{Date: s.daily.Date(), Top: []store.LBRow{}})
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.daily.Date()
	}
	rows, err := s.results.DailyLeaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
