package cart

import (
	"testing"

	"fooddash/internal/domain/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// cart=[{A1,2}], restaurant=A, conflict={B1,3}
func pendingStore() *Store {
	s := NewStore()
	s.Add(a1, 2)
	s.Add(b1, 3)
	return s
}

func TestResolveConflict_Replace(t *testing.T) {
	s := pendingStore()

	s.ResolveConflict(true)

	want := model.CartState{
		RestaurantID: "B",
		Items:        []model.CartItem{{Dish: b1, Quantity: 3}},
	}
	if diff := cmp.Diff(want, s.State(), decimalEqual); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestResolveConflict_Keep(t *testing.T) {
	s := pendingStore()

	s.ResolveConflict(false)

	want := model.CartState{
		RestaurantID: "A",
		Items:        []model.CartItem{{Dish: a1, Quantity: 2}},
	}
	if diff := cmp.Diff(want, s.State(), decimalEqual); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestResolveConflict_NoPendingIsNoop(t *testing.T) {
	s := NewStore()
	s.Add(a1, 2)

	s.ResolveConflict(true)

	st := s.State()
	assert.Equal(t, "A", st.RestaurantID)
	assert.Len(t, st.Items, 1)
}

func TestConflict_StateIsCopied(t *testing.T) {
	s := pendingStore()

	c, ok := s.Conflict()
	assert.True(t, ok)
	c.ProposedDish.ID = "mutated"

	c2, _ := s.Conflict()
	assert.Equal(t, "b1", c2.ProposedDish.ID)
}
