package game

// ProjectilePool is an arena of projectile slots. Every slot is either in
// the active set or on the free list, never both.
type ProjectilePool struct {
	slots  []*Projectile
	active []int // slot indices in firing order
	free   []int
	nextID uint32
}

// NewProjectilePool returns an empty pool.
func NewProjectilePool() *ProjectilePool {
	return &ProjectilePool{}
}

// Fire takes a recycled slot, or allocates one, and launches it.
func (pp *ProjectilePool) Fire(ownerID string, pos Vec, heading float64, color Color) *Projectile {
	var p *Projectile
	if n := len(pp.free); n > 0 {
		p = pp.slots[pp.free[n-1]]
		pp.free = pp.free[:n-1]
	} else {
		p = &Projectile{slot: len(pp.slots)}
		pp.slots = append(pp.slots, p)
	}
	pp.nextID++
	p.ID = pp.nextID
	p.OwnerID = ownerID
	p.Pos = pos
	p.Heading = heading
	p.Vel = Unit(heading).Scale(ProjectileSpeed)
	p.Color = color
	p.recycle = false
	p.state = slotActive
	pp.active = append(pp.active, p.slot)
	return p
}

// Tick advances every active projectile and recycles those that left b.
func (pp *ProjectilePool) Tick(b Bounds) {
	for _, idx := range pp.active {
		pp.slots[idx].advance(b)
	}
	for i := len(pp.active) - 1; i >= 0; i-- {
		if pp.slots[pp.active[i]].recycle {
			pp.release(i)
		}
	}
}

// RecycleByID returns the active projectile with id to the pool.
func (pp *ProjectilePool) RecycleByID(id uint32) bool {
	for i := len(pp.active) - 1; i >= 0; i-- {
		if pp.slots[pp.active[i]].ID == id {
			pp.release(i)
			return true
		}
	}
	return false
}

// RecycleAllByOwner returns every active projectile fired by ownerID and
// reports how many were recycled.
func (pp *ProjectilePool) RecycleAllByOwner(ownerID string) int {
	n := 0
	for i := len(pp.active) - 1; i >= 0; i-- {
		if pp.slots[pp.active[i]].OwnerID == ownerID {
			pp.release(i)
			n++
		}
	}
	return n
}

// release moves active[i] onto the free list.
func (pp *ProjectilePool) release(i int) {
	idx := pp.active[i]
	pp.slots[idx].reset()
	pp.active = append(pp.active[:i], pp.active[i+1:]...)
	pp.free = append(pp.free, idx)
}

// Each calls fn for every active projectile in firing order.
func (pp *ProjectilePool) Each(fn func(p *Projectile)) {
	for _, idx := range pp.active {
		fn(pp.slots[idx])
	}
}

// Active returns the in-flight projectiles. The slice is a copy.
func (pp *ProjectilePool) Active() []*Projectile {
	out := make([]*Projectile, len(pp.active))
	for i, idx := range pp.active {
		out[i] = pp.slots[idx]
	}
	return out
}

func (pp *ProjectilePool) ActiveCount() int { return len(pp.active) }
func (pp *ProjectilePool) PooledCount() int { return len(pp.free) }
func (pp *ProjectilePool) Capacity() int    { return len(pp.slots) }
