package draft

import (
	"testing"
)

func TestGenerateFlatPoolSlices(t *testing.T) {
	pool := makePool(12)
	gen := newTestGenerator(&stubSource{pool: pool}, 3)

	packs, err := gen.GenerateRound(2, 0, "", nil)
	if err != nil {
		t.Fatalf("GenerateRound: %v", err)
	}
	if len(packs) != 2 {
		t.Fatalf("want 2 packs, got %d", len(packs))
	}
	seen := map[string]bool{}
	for i, p := range packs {
		if len(p) != 3 {
			t.Fatalf("pack %d: want 3 cards, got %d", i, len(p))
		}
		for _, c := range p {
			if seen[c.Name] {
				t.Fatalf("card %q dealt twice from a pool big enough to avoid repeats", c.Name)
			}
			seen[c.Name] = true
		}
	}
}

func TestGenerateFlatPoolWrapsSmallPool(t *testing.T) {
	// 4 cards, 3 players, packs of 3. The first pack drains the pool to one
	// card; dealt cards are then recycled onto the tail, so later packs
	// refill gradually: lengths 3, 1, 2. Repeats across packs are accepted.
	gen := newTestGenerator(&stubSource{pool: makePool(4)}, 3)

	packs, err := gen.GenerateRound(3, 0, "", nil)
	if err != nil {
		t.Fatalf("GenerateRound: %v", err)
	}
	if len(packs) != 3 {
		t.Fatalf("want 3 packs, got %d", len(packs))
	}
	wantLens := []int{3, 1, 2}
	for i, p := range packs {
		if len(p) != wantLens[i] {
			t.Fatalf("pack %d: want %d cards, got %d", i, wantLens[i], len(p))
		}
	}
}

func TestGenerateFlatPoolDoesNotMutateSource(t *testing.T) {
	pool := makePool(6)
	gen := newTestGenerator(&stubSource{pool: pool}, 3)
	if _, err := gen.GenerateRound(2, 0, "", nil); err != nil {
		t.Fatalf("GenerateRound: %v", err)
	}
	for i, c := range pool {
		if want := makePool(6)[i]; c != want {
			t.Fatalf("source pool mutated at %d: %+v", i, c)
		}
	}
}

func TestSelectPackIDsCyclesCatalogEvenly(t *testing.T) {
	src := &stubSource{sets: map[string]map[string][]Card{
		"alpha": {
			"pack-a": makePool(3),
			"pack-b": makePool(3),
		},
	}}
	gen := newTestGenerator(src, 3)

	// 2 players * 3 rounds = 6 picks from a 2-pack catalog: each pack must
	// appear exactly 3 times.
	chosen, err := gen.SelectPackIDs("alpha", 2, 3)
	if err != nil {
		t.Fatalf("SelectPackIDs: %v", err)
	}
	if len(chosen) != 6 {
		t.Fatalf("want 6 chosen IDs, got %d", len(chosen))
	}
	counts := map[string]int{}
	for _, id := range chosen {
		counts[id]++
	}
	if counts["pack-a"] != 3 || counts["pack-b"] != 3 {
		t.Fatalf("repeats must spread evenly across the catalog, got %v", counts)
	}
}

func TestSelectPackIDsFallsBackWithoutCatalog(t *testing.T) {
	gen := newTestGenerator(&stubSource{pool: makePool(6)}, 3)

	chosen, err := gen.SelectPackIDs("", 2, 3)
	if err != nil || chosen != nil {
		t.Fatalf("empty set name: want nil selection, got %v / %v", chosen, err)
	}

	chosen, err = gen.SelectPackIDs("no-such-set", 2, 3)
	if err != nil || chosen != nil {
		t.Fatalf("unknown set: want nil selection, got %v / %v", chosen, err)
	}
}

func TestGenerateRoundFromSetUsesRoundSlice(t *testing.T) {
	src := &stubSource{sets: map[string]map[string][]Card{
		"alpha": {
			"pack-a": {{Name: "a1"}, {Name: "a2"}},
			"pack-b": {{Name: "b1"}, {Name: "b2"}},
		},
	}}
	gen := newTestGenerator(src, 14)

	chosen, err := gen.SelectPackIDs("alpha", 2, 2)
	if err != nil {
		t.Fatalf("SelectPackIDs: %v", err)
	}

	for round := 0; round < 2; round++ {
		packs, err := gen.GenerateRound(2, round, "alpha", chosen)
		if err != nil {
			t.Fatalf("GenerateRound %d: %v", round, err)
		}
		if len(packs) != 2 {
			t.Fatalf("round %d: want 2 packs, got %d", round, len(packs))
		}
		for i, p := range packs {
			wantID := chosen[round*2+i]
			want := src.sets["alpha"][wantID]
			if len(p) != len(want) {
				t.Fatalf("round %d pack %d: want %d cards from %s, got %d", round, i, len(want), wantID, len(p))
			}
			// Authored order is preserved, never shuffled.
			for j := range p {
				if p[j] != want[j] {
					t.Fatalf("round %d pack %d: card %d reordered", round, i, j)
				}
			}
		}
	}
}

func TestSessionUsesSetPacks(t *testing.T) {
	src := &stubSource{
		pool: makePool(6),
		sets: map[string]map[string][]Card{
			"alpha": {
				"pack-a": {{Name: "a1"}, {Name: "a2"}},
				"pack-b": {{Name: "b1"}, {Name: "b2"}},
			},
		},
	}
	gen := newTestGenerator(src, 3)

	s, err := NewSession(gen, 2, 2, "alpha")
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	snap := s.Snapshot()
	for i, p := range snap.Packs {
		if len(p) != 2 {
			t.Fatalf("pack %d: want the authored 2-card pack, got %d cards", i, len(p))
		}
	}
}
