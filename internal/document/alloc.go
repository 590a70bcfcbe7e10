package document

import "fmt"

// Allocator is the exchangeable node allocation strategy. Every node
// created by the parser or the builder helpers passes through one
// Allocator, so a host can bound memory use. An Allocator is threaded
// explicitly through calls rather than held in package state, letting
// documents with different policies coexist.
//
// Implementations are not required to be safe for concurrent use; a
// document is single-owner and so is its allocator.
type Allocator interface {
	// New returns a zeroed node or fails with an error wrapping
	// ErrAllocation.
	New() (*Value, error)

	// Free returns a single node to the strategy. Callers release
	// whole trees through Release, which invokes Free bottom-up.
	Free(*Value)
}

// Release tears down a tree bottom-up, returning every owned node to the
// allocator exactly once. It accepts nil and partially built trees, so a
// failing parse can hand over whatever it has constructed so far.
func Release(a Allocator, v *Value) {
	if v == nil {
		return
	}
	for _, child := range v.items {
		Release(a, child)
	}
	for _, m := range v.members {
		Release(a, m.Value)
	}
	*v = Value{}
	a.Free(v)
}

// HeapAllocator allocates nodes directly from the Go heap with no
// ceiling. Free is a no-op; reclamation is left to the garbage
// collector once the tree is unreachable.
type HeapAllocator struct{}

func (HeapAllocator) New() (*Value, error) { return &Value{}, nil }

func (HeapAllocator) Free(*Value) {}

// BudgetAllocator bounds the number of live nodes. New fails with
// ErrAllocation once the ceiling is reached; Free refunds the budget, so
// releasing a partially built tree restores the full allowance.
type BudgetAllocator struct {
	limit int
	live  int
}

// NewBudgetAllocator returns an allocator permitting at most limit live
// nodes. A non-positive limit permits none.
func NewBudgetAllocator(limit int) *BudgetAllocator {
	return &BudgetAllocator{limit: limit}
}

func (b *BudgetAllocator) New() (*Value, error) {
	if b.live >= b.limit {
		return nil, fmt.Errorf("%w: node budget of %d exhausted", ErrAllocation, b.limit)
	}
	b.live++
	return &Value{}, nil
}

func (b *BudgetAllocator) Free(*Value) {
	if b.live > 0 {
		b.live--
	}
}

// Live reports the number of nodes currently charged to the budget.
func (b *BudgetAllocator) Live() int {
	return b.live
}
