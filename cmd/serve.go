package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/courtside-data/atp-cli/internal/config"
	"github.com/courtside-data/atp-cli/internal/dataset"
	"github.com/courtside-data/atp-cli/internal/jobs"
	"github.com/courtside-data/atp-cli/internal/model"
	"github.com/courtside-data/atp-cli/internal/syncer"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the query and admin API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		api := &apiServer{
			syncer:   env.syncer,
			store:    env.store,
			registry: jobs.NewRegistry(),
			runner:   func(ctx context.Context, ds string, fn syncFn) (int, error) { return runLogged(ctx, env.log, ds, fn) },
			password: cfg.Server.AdminPassword,
			sync:     cfg.Sync,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(api, cfg.Server.AllowedOrigins),
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type syncFn func(context.Context) (int, error)

// apiServer carries the handlers' collaborators. The runner wraps a
// sync flow with its audit log entry; tests substitute it.
type apiServer struct {
	syncer   *syncer.Syncer
	store    dataset.Store
	registry *jobs.Registry
	runner   func(ctx context.Context, ds string, fn syncFn) (int, error)
	password string
	sync     config.SyncConfig
}

func newRouter(api *apiServer, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}))

	r.Get("/health", api.handleHealth)
	r.Get("/players/search", api.handlePlayerSearch)
	r.Get("/rankings/stored", api.handleStoredRankings)
	r.Get("/tournaments", api.handleTournaments)

	r.Route("/admin", func(r chi.Router) {
		r.Use(api.requirePassword)
		r.Post("/rankings", api.handleTriggerRankings)
		r.Post("/tournaments", api.handleTriggerTournaments)
		r.Post("/players", api.handleTriggerPlayers)
		r.Get("/jobs", api.handleListJobs)
		r.Get("/jobs/{id}", api.handleGetJob)
		r.Get("/summary", api.handleSummary)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (a *apiServer) requirePassword(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.URL.Query().Get("password")
		if subtle.ConstantTimeCompare([]byte(got), []byte(a.password)) != 1 {
			writeErr(w, http.StatusUnauthorized, "invalid password")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePlayerSearch matches the query case-insensitively against
// player names and ids.
func (a *apiServer) handlePlayerSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if q == "" {
		writeErr(w, http.StatusBadRequest, "q is required")
		return
	}

	players, err := dataset.LoadTableOrEmpty[model.Player](r.Context(), a.store, model.DatasetPlayers)
	if err != nil {
		zap.L().Error("load players", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "load players")
		return
	}

	matches := []model.Player{}
	for _, p := range players {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.EqualFold(p.PlayerID, q) {
			matches = append(matches, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": matches, "count": len(matches)})
}

// handleStoredRankings filters one ranking table by optional player
// ids (comma list) and snapshot date. The date defaults to the most
// recent stored snapshot.
func (a *apiServer) handleStoredRankings(w http.ResponseWriter, r *http.Request) {
	rt := model.RankingType(r.URL.Query().Get("ranking_type"))
	if rt == "" {
		rt = model.RankingSingles
	}
	if !rt.Valid() {
		writeErr(w, http.StatusBadRequest, "ranking_type must be singles or doubles")
		return
	}

	rankings, err := dataset.LoadTableOrEmpty[model.Ranking](r.Context(), a.store, rt.Dataset())
	if err != nil {
		zap.L().Error("load rankings", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "load rankings")
		return
	}

	date := r.URL.Query().Get("ranking_date")
	if date == "" {
		for _, row := range rankings {
			if row.Date > date {
				date = row.Date
			}
		}
	}

	var ids map[string]struct{}
	if raw := r.URL.Query().Get("player_ids"); raw != "" {
		ids = make(map[string]struct{})
		for _, id := range strings.Split(raw, ",") {
			ids[strings.TrimSpace(id)] = struct{}{}
		}
	}

	matches := []model.Ranking{}
	for _, row := range rankings {
		if row.Date != date {
			continue
		}
		if ids != nil {
			if _, ok := ids[row.PlayerID]; !ok {
				continue
			}
		}
		matches = append(matches, row)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ranking_type": rt,
		"date":         date,
		"rankings":     matches,
		"count":        len(matches),
	})
}

// handleTournaments filters the tournament table by optional year and
// type.
func (a *apiServer) handleTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := dataset.LoadTableOrEmpty[model.Tournament](r.Context(), a.store, model.DatasetTournaments)
	if err != nil {
		zap.L().Error("load tournaments", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "load tournaments")
		return
	}

	var year int64
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		year = y
	}
	typ := r.URL.Query().Get("type")
	if typ != "" && !model.ValidTournamentType(typ) {
		writeErr(w, http.StatusBadRequest, "type must be one of gs, atp, ch, fu")
		return
	}

	matches := []model.Tournament{}
	for _, t := range tournaments {
		if year != 0 && t.Year != year {
			continue
		}
		if typ != "" && t.Type != typ {
			continue
		}
		matches = append(matches, t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"tournaments": matches, "count": len(matches)})
}

// trigger registers a job of the given kind and runs the sync in the
// background. The server outlives the request context, so jobs run
// under their own context.
func (a *apiServer) trigger(w http.ResponseWriter, kind, ds string, fn syncFn) {
	job, err := a.registry.Start(kind)
	if err != nil {
		writeErr(w, http.StatusConflict, err.Error())
		return
	}

	go func() {
		n, err := a.runner(context.Background(), ds, fn)
		if err != nil {
			zap.L().Error("background sync failed", zap.String("kind", kind), zap.Error(err))
			a.registry.Fail(job.ID, err)
			return
		}
		a.registry.Complete(job.ID, n)
	}()

	writeJSON(w, http.StatusAccepted, job)
}

func (a *apiServer) handleTriggerRankings(w http.ResponseWriter, r *http.Request) {
	a.trigger(w, "rankings", "rankings", func(ctx context.Context) (int, error) {
		total := 0
		for _, rt := range []model.RankingType{model.RankingSingles, model.RankingDoubles} {
			n, err := a.syncer.Rankings(ctx, rt, a.sync.MaxWeeks)
			if err != nil {
				return total, err
			}
			total += n
		}
		return total, nil
	})
}

func (a *apiServer) handleTriggerTournaments(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	a.trigger(w, "tournaments", model.DatasetTournaments, func(ctx context.Context) (int, error) {
		return a.syncer.UpdateTournaments(ctx, []int{year}, a.sync.TournamentTypes)
	})
}

func (a *apiServer) handleTriggerPlayers(w http.ResponseWriter, r *http.Request) {
	a.trigger(w, "players", model.DatasetPlayers, func(ctx context.Context) (int, error) {
		return a.syncer.PlayerBios(ctx, a.sync.NumPlayers)
	})
}

func (a *apiServer) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"jobs": a.registry.List()})
}

func (a *apiServer) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := a.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		writeErr(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (a *apiServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.syncer.Summarize(r.Context())
	if err != nil {
		zap.L().Error("summarize", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "summarize datasets")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
