package draft

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"
)

// PoolSource supplies card definitions from somewhere external (on disk, in
// the reference deployment). Empty results are not errors at this layer: an
// empty pack catalog means "fall back to the flat pool", an empty set list
// means "no sets installed".
type PoolSource interface {
	FlatPool() ([]Card, error)
	ListSets() ([]string, error)
	ListPacks(set string) ([]string, error)
	LoadPack(set, packID string) ([]Card, error)
}

var ErrEmptyPool = errors.New("card pool is empty")

// Generator materializes the packs for one round of a draft. It is stateless
// across sessions; the session owns any per-session selection state (see
// SelectPackIDs).
type Generator struct {
	source   PoolSource
	packSize int
	rng      *rand.Rand
}

func NewGenerator(source PoolSource, packSize int) *Generator {
	return &Generator{
		source:   source,
		packSize: packSize,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SelectPackIDs pre-selects the pack IDs for an entire session: the set's
// catalog is shuffled once and then cycled until players*totalRounds IDs are
// chosen, so repeats spread evenly when the catalog is small. Returns nil if
// set is empty or has no packs, which callers treat as "use the flat pool".
//
// Selection happens exactly once per session. The flat-pool path, by
// contrast, reshuffles per round; the asymmetry is deliberate (it matches
// the reference behavior).
func (g *Generator) SelectPackIDs(set string, players, totalRounds int) ([]string, error) {
	if set == "" {
		return nil, nil
	}
	catalog, err := g.source.ListPacks(set)
	if err != nil {
		return nil, fmt.Errorf("list packs for set %q: %w", set, err)
	}
	if len(catalog) == 0 {
		return nil, nil
	}
	shuffled := slices.Clone(catalog)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	total := players * totalRounds
	chosen := make([]string, 0, total)
	for i := 0; i < total; i++ {
		chosen = append(chosen, shuffled[i%len(shuffled)])
	}
	return chosen, nil
}

// GenerateRound produces exactly players packs for round roundIndex. When
// chosen is non-nil the round's packs are loaded from the pre-selected slice
// [roundIndex*players : (roundIndex+1)*players]; otherwise the flat pool is
// reshuffled and sliced.
func (g *Generator) GenerateRound(players, roundIndex int, set string, chosen []string) ([]Pack, error) {
	if chosen != nil {
		return g.generateFromSet(players, roundIndex, set, chosen)
	}
	return g.generateFromPool(players)
}

func (g *Generator) generateFromSet(players, roundIndex int, set string, chosen []string) ([]Pack, error) {
	start := roundIndex * players
	packs := make([]Pack, 0, players)
	for _, id := range chosen[start : start+players] {
		cards, err := g.source.LoadPack(set, id)
		if err != nil {
			return nil, fmt.Errorf("load pack %s/%s: %w", set, id, err)
		}
		// Pre-built packs keep their authored order, no shuffle.
		packs = append(packs, slices.Clone(cards))
	}
	return packs, nil
}

func (g *Generator) generateFromPool(players int) ([]Pack, error) {
	pool, err := g.source.FlatPool()
	if err != nil {
		return nil, fmt.Errorf("load flat pool: %w", err)
	}
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	shuffled := slices.Clone(pool)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	packs := make([]Pack, 0, players)
	for p := 0; p < players; p++ {
		n := min(g.packSize, len(shuffled))
		pack := Pack(slices.Clone(shuffled[:n]))
		if len(shuffled) >= g.packSize {
			shuffled = shuffled[g.packSize:]
		} else {
			// Small pool: recycle already-dealt cards so later packs still
			// fill up. Cards repeating across packs is accepted here.
			shuffled = append(shuffled, pack...)
		}
		packs = append(packs, pack)
	}
	return packs, nil
}
