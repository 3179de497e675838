package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"engsite/internal/models"
)

// TreeNode is one category of a resolved tree.
type TreeNode struct {
	ID       uuid.UUID           `json:"id" db:"id"`
	Title    string              `json:"title" db:"title"`
	ParentID *uuid.UUID          `json:"parent_id" db:"parent_id"`
	Slug     string              `json:"slug" db:"slug"`
	Type     models.CategoryType `json:"-" db:"type"`
}

func (n TreeNode) NodeID() uuid.UUID        { return n.ID }
func (n TreeNode) ParentNodeID() *uuid.UUID { return n.ParentID }

// ChainNode is one lesson of an owner's chain. OwnerID is the owning
// category, serialized as topic_id.
type ChainNode struct {
	ID       uuid.UUID  `json:"id" db:"id"`
	Title    string     `json:"title" db:"title"`
	ParentID *uuid.UUID `json:"-" db:"parent_id"`
	OwnerID  uuid.UUID  `json:"topic_id" db:"owner_id"`
	Slug     string     `json:"slug" db:"slug"`
}

func (n ChainNode) NodeID() uuid.UUID        { return n.ID }
func (n ChainNode) ParentNodeID() *uuid.UUID { return n.ParentID }

// LessonPartition is every owner category of one type together with the
// articles they own, as returned by a single query.
type LessonPartition struct {
	Owners  []uuid.UUID
	Lessons []ChainNode
}

// Source fetches one type partition per call. Implementations issue a
// single query and order rows by creation time then id.
type Source interface {
	CategoryPartition(ctx context.Context, t models.CategoryType) ([]TreeNode, error)
	LessonPartition(ctx context.Context, t models.CategoryType) (LessonPartition, error)
}

// Resolver resolves category trees and lesson chains for one category type.
type Resolver struct {
	src    Source
	logger *zap.Logger
	onSkip SkipHook
}

// SkipHook is told how many rows of kind ("category" or "lesson") a
// resolution left out.
type SkipHook func(kind string, t models.CategoryType, n int)

// Option configures a Resolver.
type Option func(*Resolver)

// WithSkipHook registers fn to be called after every resolution that
// skipped rows.
func WithSkipHook(fn SkipHook) Option {
	return func(r *Resolver) { r.onSkip = fn }
}

// NewResolver returns a Resolver reading from src.
func NewResolver(src Source, logger *zap.Logger, opts ...Option) *Resolver {
	r := &Resolver{src: src, logger: logger, onSkip: func(string, models.CategoryType, int) {}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CategoryTree returns every category of type t reachable from a parentless
// category of the same type, breadth-first. Rows of another type are ignored
// at every step, so a foreign row never links two type-t categories.
// Unreachable rows are logged and left out.
func (r *Resolver) CategoryTree(ctx context.Context, t models.CategoryType) ([]TreeNode, error) {
	rows, err := r.src.CategoryPartition(ctx, t)
	if err != nil {
		return nil, unavailable("resolve category tree", t, err)
	}

	partition := make([]TreeNode, 0, len(rows))
	for _, row := range rows {
		if row.Type == t {
			partition = append(partition, row)
		}
	}

	reached, skipped := Expand(partition)
	if len(skipped) > 0 {
		r.logger.Warn("categories unreachable from a root",
			zap.String("type", string(t)),
			zap.Int("skipped", len(skipped)),
			zap.Stringers("ids", nodeIDs(skipped)),
		)
		r.onSkip("category", t, len(skipped))
	}
	return reached, nil
}

// ChainsByOwner returns, for every category of type t, the lessons it owns
// in discovery order. Every owner has a key; an owner without lessons maps
// to an empty slice. Order is ancestor-first only for linear chains; siblings
// keep the source order.
func (r *Resolver) ChainsByOwner(ctx context.Context, t models.CategoryType) (map[uuid.UUID][]ChainNode, error) {
	part, err := r.src.LessonPartition(ctx, t)
	if err != nil {
		return nil, unavailable("resolve chains by owner", t, err)
	}

	chains := make(map[uuid.UUID][]ChainNode, len(part.Owners))
	for _, owner := range part.Owners {
		chains[owner] = []ChainNode{}
	}

	owned := make([]ChainNode, 0, len(part.Lessons))
	for _, l := range part.Lessons {
		if _, ok := chains[l.OwnerID]; ok {
			owned = append(owned, l)
		}
	}

	reached, skipped := Expand(owned)
	for _, l := range reached {
		chains[l.OwnerID] = append(chains[l.OwnerID], l)
	}
	if len(skipped) > 0 {
		r.logger.Warn("lessons unreachable from a chain head",
			zap.String("type", string(t)),
			zap.Int("skipped", len(skipped)),
			zap.Stringers("ids", nodeIDs(skipped)),
		)
		r.onSkip("lesson", t, len(skipped))
	}
	return chains, nil
}

func unavailable(op string, t models.CategoryType, err error) error {
	if errors.Is(err, models.ErrStoreUnavailable) {
		return fmt.Errorf("%s %s: %w", op, t, err)
	}
	return fmt.Errorf("%s %s: %w: %w", op, t, models.ErrStoreUnavailable, err)
}

func nodeIDs[T Linked](items []T) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.NodeID()
	}
	return ids
}
