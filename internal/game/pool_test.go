package game

import "testing"

var testBounds = Bounds{W: 1000, H: 800}

// checkPoolInvariant verifies every slot is in exactly one of the two sets.
func checkPoolInvariant(t *testing.T, pp *ProjectilePool) {
	t.Helper()
	seen := make(map[int]int)
	for _, idx := range pp.active {
		seen[idx]++
		if pp.slots[idx].state != slotActive {
			t.Errorf("slot %d in active set but state %d", idx, pp.slots[idx].state)
		}
	}
	for _, idx := range pp.free {
		seen[idx]++
		p := pp.slots[idx]
		if p.state != slotPooled {
			t.Errorf("slot %d on free list but state %d", idx, p.state)
		}
		if p.OwnerID != "" || p.Pos != offstage || p.Vel != (Vec{}) || p.recycle {
			t.Errorf("pooled slot %d not reset: %+v", idx, p)
		}
	}
	for i := range pp.slots {
		if seen[i] != 1 {
			t.Errorf("slot %d appears %d times across active and free", i, seen[i])
		}
	}
}

func TestPoolFireInitializes(t *testing.T) {
	pp := NewProjectilePool()
	p := pp.Fire("ship1", Vec{X: 100, Y: 100}, 0, Color{R: 1})
	if p.OwnerID != "ship1" {
		t.Errorf("expected owner ship1, got %q", p.OwnerID)
	}
	if p.Vel.X != ProjectileSpeed || p.Vel.Y != 0 {
		t.Errorf("expected velocity (%v,0), got %+v", ProjectileSpeed, p.Vel)
	}
	if pp.ActiveCount() != 1 || pp.PooledCount() != 0 {
		t.Errorf("expected 1 active 0 pooled, got %d/%d", pp.ActiveCount(), pp.PooledCount())
	}
	checkPoolInvariant(t, pp)
}

func TestPoolReusesRecycledSlot(t *testing.T) {
	pp := NewProjectilePool()
	first := pp.Fire("a", Vec{X: 10, Y: 10}, 0, Color{})
	if !pp.RecycleByID(first.ID) {
		t.Fatal("expected recycle to find the projectile")
	}
	second := pp.Fire("b", Vec{X: 20, Y: 20}, 0, Color{})
	if pp.Capacity() != 1 {
		t.Errorf("expected slot reuse, capacity %d", pp.Capacity())
	}
	if first != second {
		t.Error("expected the same instance to be reused")
	}
	if second.ID == 1 {
		t.Error("reused projectile should get a fresh id")
	}
	if second.OwnerID != "b" {
		t.Errorf("expected owner b, got %q", second.OwnerID)
	}
	checkPoolInvariant(t, pp)
}

func TestPoolRecycleIsIdempotent(t *testing.T) {
	pp := NewProjectilePool()
	p := pp.Fire("a", Vec{X: 10, Y: 10}, 0, Color{})
	id := p.ID
	if !pp.RecycleByID(id) {
		t.Fatal("first recycle should succeed")
	}
	if pp.RecycleByID(id) {
		t.Error("second recycle should be a no-op")
	}
	if pp.RecycleByID(999) {
		t.Error("unknown id should be a no-op")
	}
	if n := pp.RecycleAllByOwner("nobody"); n != 0 {
		t.Errorf("expected 0 recycled for unknown owner, got %d", n)
	}
	if pp.PooledCount() != 1 {
		t.Errorf("expected 1 pooled, got %d", pp.PooledCount())
	}
	checkPoolInvariant(t, pp)
}

func TestPoolRecycleAllByOwner(t *testing.T) {
	pp := NewProjectilePool()
	for i := 0; i < 3; i++ {
		pp.Fire("a", Vec{X: 100, Y: 100}, 0, Color{})
		pp.Fire("b", Vec{X: 100, Y: 100}, 0, Color{})
	}
	if n := pp.RecycleAllByOwner("a"); n != 3 {
		t.Errorf("expected 3 recycled, got %d", n)
	}
	pp.Each(func(p *Projectile) {
		if p.OwnerID != "b" {
			t.Errorf("unexpected active projectile owned by %q", p.OwnerID)
		}
	})
	if pp.ActiveCount() != 3 {
		t.Errorf("expected 3 active, got %d", pp.ActiveCount())
	}
	checkPoolInvariant(t, pp)
}

func TestPoolTickRecyclesOutOfBounds(t *testing.T) {
	pp := NewProjectilePool()
	out := pp.Fire("a", Vec{X: testBounds.W - 5, Y: 100}, 0, Color{})
	in := pp.Fire("a", Vec{X: 100, Y: 100}, 0, Color{})
	pp.Tick(testBounds)

	if out.Active() {
		t.Error("projectile past the right edge should be recycled")
	}
	if !in.Active() {
		t.Error("projectile inside bounds should stay active")
	}
	if in.Pos.X != 100+ProjectileSpeed {
		t.Errorf("expected x %v, got %v", 100+ProjectileSpeed, in.Pos.X)
	}
	checkPoolInvariant(t, pp)
}

func TestPoolInvariantUnderChurn(t *testing.T) {
	pp := NewProjectilePool()
	for tick := 0; tick < 200; tick++ {
		heading := float64(tick) * 0.37
		pp.Fire("a", Vec{X: 500, Y: 400}, heading, Color{})
		if tick%7 == 0 {
			pp.Fire("b", Vec{X: 20, Y: 20}, 3.14, Color{})
		}
		if tick%11 == 0 {
			pp.RecycleAllByOwner("b")
		}
		pp.Tick(testBounds)
		checkPoolInvariant(t, pp)
	}
	if pp.Capacity() > 80 {
		t.Errorf("pool grew to %d slots; recycling is not reusing instances", pp.Capacity())
	}
}

func TestRecycleFlagIsSticky(t *testing.T) {
	p := &Projectile{Pos: Vec{X: testBounds.W - 1, Y: 10}, Vel: Vec{X: 5}}
	p.advance(testBounds)
	if !p.NeedsRecycling() {
		t.Fatal("expected recycle flag after leaving bounds")
	}
	p.Vel = Vec{X: -50}
	p.advance(testBounds)
	if !p.NeedsRecycling() {
		t.Error("recycle flag must stay set after re-entering bounds")
	}
}
