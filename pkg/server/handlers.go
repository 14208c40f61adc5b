package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/joinery/pkg/buildinfo"
	"github.com/matzehuels/joinery/pkg/element"
	"github.com/matzehuels/joinery/pkg/groups"
	"github.com/matzehuels/joinery/pkg/hierarchy"
	pkgio "github.com/matzehuels/joinery/pkg/io"
)

// Tree modes accepted by /groups/tree.
const (
	ModeInferred = "inferred"
	ModeExplicit = "explicit"
)

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	found, err := element.Discover(ctx, s.store, nil, s.logger)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snaps := make([]*element.Snapshot, 0, len(found))
	for _, e := range found {
		snap, err := e.Snapshot(ctx)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		snaps = append(snaps, snap)
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleElement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e, err := element.Lookup(ctx, s.store, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snap, err := e.Snapshot(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) resolve(r *http.Request) (*hierarchy.Result, error) {
	res := &hierarchy.Resolver{Store: s.store, Logger: s.logger}
	return res.Resolve(r.Context(), nil)
}

type groupsResponse struct {
	Groups  []*groups.Group  `json:"groups"`
	Skipped []hierarchy.Skip `json:"skipped"`
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	res, err := s.resolve(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := groupsResponse{Groups: res.Index.Sorted(), Skipped: res.Skipped}
	if out.Skipped == nil {
		out.Skipped = []hierarchy.Skip{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = ModeInferred
	}
	if mode != ModeInferred && mode != ModeExplicit {
		writeError(w, http.StatusBadRequest, "mode must be inferred or explicit", "INVALID_INPUT")
		return
	}
	res, err := s.resolve(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	forest := res.Inferred
	if mode == ModeExplicit {
		forest = res.Explicit
	}
	w.Header().Set("Content-Type", "application/json")
	if err := pkgio.WriteForestJSON(forest, w); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

type sharedPair struct {
	A       string   `json:"a"`
	B       string   `json:"b"`
	Members []string `json:"members"`
}

func (s *Server) handleShared(w http.ResponseWriter, r *http.Request) {
	res, err := s.resolve(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := []sharedPair{}
	for _, p := range hierarchy.SortedPairs(res.Shared) {
		out = append(out, sharedPair{A: p.A, B: p.B, Members: res.Shared[p]})
	}
	writeJSON(w, http.StatusOK, out)
}
