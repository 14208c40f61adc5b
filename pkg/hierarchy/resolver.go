package hierarchy

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/joinery/pkg/docstore"
	"github.com/matzehuels/joinery/pkg/errors"
	"github.com/matzehuels/joinery/pkg/groups"
	"github.com/matzehuels/joinery/pkg/observability"
)

// Skip is an entity left out of a resolution.
type Skip struct {
	Entity string `json:"entity"`
	Reason string `json:"reason"`
}

// Result is the outcome of resolving the groups of a set of entities.
type Result struct {
	Index    *groups.Index
	Parents  map[string]string // Inferred parent of every group, "" for roots
	Inferred *Forest
	Explicit *Forest
	Shared   map[Pair][]string
	Skipped  []Skip
}

// Resolver reads group tags from a store and builds both hierarchies.
type Resolver struct {
	Store  docstore.Store
	Logger *log.Logger // nil disables logging
}

// Resolve indexes the group tags of ids and infers the group hierarchy. A nil
// ids slice means every object in the store.
//
// Entities whose tags cannot be read are skipped with an
// INCONSISTENT_MEMBERSHIP reason in Result.Skipped. They never fail the
// resolution. Errors listing the store or a cancelled context do. Blank tags
// and blank path segments are kept and read as groups.Unnamed.
func (r *Resolver) Resolve(ctx context.Context, ids []string) (res *Result, err error) {
	logger := r.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	hooks := observability.Hierarchy()
	start := time.Now()
	defer func() {
		groupCount := 0
		if res != nil {
			groupCount = len(res.Index.Groups)
		}
		hooks.OnResolveComplete(ctx, groupCount, time.Since(start), err)
	}()

	if ids == nil {
		if ids, err = r.Store.List(ctx); err != nil {
			return nil, err
		}
	}
	hooks.OnResolveStart(ctx, len(ids))

	var skipped []Skip
	skip := func(id string, cause error) {
		reason := errors.Wrap(errors.ErrCodeInconsistentMembership, cause, "entity %s", id)
		logger.Warn("skipping group membership", "entity", id, "err", cause)
		hooks.OnSkip(ctx, id, reason)
		skipped = append(skipped, Skip{Entity: id, Reason: errors.UserMessage(cause)})
	}

	tagged := make([]groups.Tagged, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tags, err := r.Store.GroupTags(ctx, id)
		if err != nil {
			skip(id, err)
			continue
		}
		tagged = append(tagged, groups.Tagged{ID: id, Tags: tags})
	}

	idx := groups.Build(tagged)
	parents := InferParents(idx.MemberSets())
	inferred := BuildTree(parents)
	attach(inferred, idx)

	res = &Result{
		Index:    idx,
		Parents:  parents,
		Inferred: inferred,
		Explicit: Explicit(idx),
		Shared:   SharedMembers(idx.EntityGroups),
		Skipped:  skipped,
	}
	logger.Debug("resolved group hierarchy",
		"entities", len(tagged),
		"groups", len(idx.Groups),
		"roots", len(inferred.Roots()),
		"skipped", len(skipped),
		"elapsed", time.Since(start))
	return res, nil
}
