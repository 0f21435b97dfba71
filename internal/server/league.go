package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"franchise-league/internal/auction"
	"franchise-league/internal/constants"
	"franchise-league/internal/domain"
	apperrors "franchise-league/internal/errors"
	"franchise-league/internal/policy"
	"franchise-league/internal/repository"
	"franchise-league/internal/season"
	"franchise-league/internal/service"

	"github.com/rs/zerolog"
)

type LeagueServer struct {
	leagues *service.LeagueService
	db      *sql.DB
	logger  zerolog.Logger
}

func NewLeagueServer(leagues *service.LeagueService, sqlDB *sql.DB, logger zerolog.Logger) *LeagueServer {
	return &LeagueServer{leagues: leagues, db: sqlDB, logger: logger}
}

type LeagueResponse struct {
	ID      string           `json:"id"`
	Version int64            `json:"version"`
	State   domain.GameState `json:"state"`
}

type ProgressRequest struct {
	Action    *auction.ActionKind `json:"action,omitempty"`
	Automated bool                `json:"automated,omitempty"`
	MaxLots   int                 `json:"maxLots,omitempty"`
}

type SkipRequest struct {
	PlayerID string `json:"playerId"`
}

type WindowResponse struct {
	League LeagueResponse       `json:"league"`
	Date   *string              `json:"date"`
	Played []domain.MatchResult `json:"played"`
}

type ValidateResponse struct {
	Valid  bool              `json:"valid"`
	Issues []apperrors.Issue `json:"issues"`
}

// StreamEvent is one NDJSON line of a season simulation stream.
type StreamEvent struct {
	Type       string              `json:"type"`
	Checkpoint *season.Checkpoint  `json:"checkpoint,omitempty"`
	Result     *SimulationResponse `json:"result,omitempty"`
	Error      *errorBody          `json:"error,omitempty"`
}

type SimulationResponse struct {
	ID             string       `json:"id"`
	Version        int64        `json:"version"`
	Phase          domain.Phase `json:"phase"`
	Cancelled      bool         `json:"cancelled"`
	Dates          int          `json:"dates"`
	ChampionTeamID string       `json:"championTeamId,omitempty"`
}

const (
	EventCheckpoint = "checkpoint"
	EventResult     = "result"
	EventError      = "error"
)

func toResponse(rec repository.Record) LeagueResponse {
	return LeagueResponse{ID: rec.State.Meta.ID, Version: rec.Version, State: rec.State}
}

// Routes registers every endpoint on a new mux.
func (s *LeagueServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("GET /api/policies/{set}", s.resolvePolicy)
	mux.HandleFunc("POST /api/leagues", s.createLeague)
	mux.HandleFunc("GET /api/leagues", s.listLeagues)
	mux.HandleFunc("GET /api/leagues/{id}", s.getLeague)
	mux.HandleFunc("DELETE /api/leagues/{id}", s.deleteLeague)
	mux.HandleFunc("GET /api/leagues/{id}/snapshots", s.snapshots)
	mux.HandleFunc("POST /api/leagues/{id}/auction/progress", s.progressAuction)
	mux.HandleFunc("POST /api/leagues/{id}/auction/skip", s.skipToPlayer)
	mux.HandleFunc("POST /api/leagues/{id}/season/start", s.startSeason)
	mux.HandleFunc("POST /api/leagues/{id}/season/next", s.nextWindow)
	mux.HandleFunc("POST /api/leagues/{id}/season/simulate", s.simulateSeason)
	mux.HandleFunc("POST /api/leagues/{id}/season/advance", s.advanceSeason)
	mux.HandleFunc("GET /api/leagues/{id}/validate", s.validate)
	return mux
}

func (s *LeagueServer) health(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string) (*int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.Validationf("Query parameter %s must be an integer", key)
	}
	return &v, nil
}

func (s *LeagueServer) resolvePolicy(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	index, err := queryInt(r, "seasonIndex")
	if err != nil {
		writeError(w, r, err)
		return
	}
	resolved, err := s.leagues.ResolvePolicy(r.PathValue("set"), policy.YearContext{
		Year:        year,
		SeasonIndex: index,
		CycleMarker: r.URL.Query().Get("cycle"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}

func (s *LeagueServer) createLeague(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.leagues.CreateLeague(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(rec))
}

func (s *LeagueServer) listLeagues(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	n := constants.LeagueListLimit
	if limit != nil {
		n = *limit
	}
	leagues, err := s.leagues.ListLeagues(r.Context(), n)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if leagues == nil {
		leagues = []repository.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"leagues": leagues})
}

func (s *LeagueServer) getLeague(w http.ResponseWriter, r *http.Request) {
	rec, err := s.leagues.GetLeague(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (s *LeagueServer) deleteLeague(w http.ResponseWriter, r *http.Request) {
	if err := s.leagues.DeleteLeague(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *LeagueServer) snapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.leagues.Snapshots(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if snaps == nil {
		snaps = []repository.Snapshot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps})
}

func (s *LeagueServer) progressAuction(w http.ResponseWriter, r *http.Request) {
	var req ProgressRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var action *auction.Action
	if req.Action != nil {
		action = &auction.Action{Kind: *req.Action}
	}
	rec, err := s.leagues.ProgressAuction(r.Context(), r.PathValue("id"), action, auction.Options{
		Automated: req.Automated,
		MaxLots:   req.MaxLots,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (s *LeagueServer) skipToPlayer(w http.ResponseWriter, r *http.Request) {
	var req SkipRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.PlayerID == "" {
		writeError(w, r, apperrors.Validation("playerId is required"))
		return
	}
	rec, err := s.leagues.SkipToPlayer(r.Context(), r.PathValue("id"), req.PlayerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (s *LeagueServer) startSeason(w http.ResponseWriter, r *http.Request) {
	rec, err := s.leagues.StartSeason(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (s *LeagueServer) advanceSeason(w http.ResponseWriter, r *http.Request) {
	rec, err := s.leagues.AdvanceSeason(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (s *LeagueServer) nextWindow(w http.ResponseWriter, r *http.Request) {
	res, err := s.leagues.NextWindow(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	played := res.Played
	if played == nil {
		played = []domain.MatchResult{}
	}
	writeJSON(w, http.StatusOK, WindowResponse{League: toResponse(res.League), Date: res.Date, Played: played})
}

// simulateSeason streams one NDJSON checkpoint per simulated date and ends
// with a result or error line.
func (s *LeagueServer) simulateSeason(w http.ResponseWriter, r *http.Request) {
	sim, err := s.leagues.SimulateSeason(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)
	emit := func(ev StreamEvent) {
		if err := enc.Encode(ev); err != nil {
			return
		}
		_ = rc.Flush()
	}

	for cp := range sim.Checkpoints {
		emit(StreamEvent{Type: EventCheckpoint, Checkpoint: &cp})
	}

	res, err := sim.Wait()
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("season simulation failed")
		body := errorPayload(err).Error
		emit(StreamEvent{Type: EventError, Error: &body})
		return
	}
	emit(StreamEvent{Type: EventResult, Result: &SimulationResponse{
		ID:             res.League.State.Meta.ID,
		Version:        res.League.Version,
		Phase:          res.League.State.Phase,
		Cancelled:      res.Cancelled,
		Dates:          res.Dates,
		ChampionTeamID: res.League.State.ChampionTeamID,
	}})
}

func (s *LeagueServer) validate(w http.ResponseWriter, r *http.Request) {
	issues, err := s.leagues.Validate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: len(issues) == 0, Issues: issues})
}
