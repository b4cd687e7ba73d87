package syncengine

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/diewo77/go-quotations/internal/models"
)

func testSetup() Setup {
	return Setup{
		Source: models.Company{ID: "gtc"},
		Dependents: []Participant{
			{Company: models.Company{ID: "gdc"}, AdjustmentPercent: 10},
			{Company: models.Company{ID: "rudharma"}},
		},
	}
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(New())
	s, err := r.Create(testSetup())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := r.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("Get: %v", err)
	}
	if err := r.Delete(s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := r.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := r.Delete(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("double delete: %v", err)
	}
	if _, err := r.Create(Setup{}); err == nil {
		t.Fatalf("expected setup error")
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d", r.Len())
	}
}

func TestSessionCommitsOnlyAcceptedEvents(t *testing.T) {
	r := NewRegistry(New())
	s, _ := r.Create(testSetup())
	if _, err := s.Apply(EditSourceField{Name: "customerName", Value: "A"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	res, err := s.Apply(ChangeTaxRate{Entity: "gtc", Rate: -5})
	if err != nil || res.Accepted() {
		t.Fatalf("expected violation, got %v %v", res.Violations, err)
	}
	if _, err := s.Apply(ChangeTaxRate{Entity: "ghost", Rate: 5}); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("expected unknown entity, got %v", err)
	}
	st := s.State()
	if st.Source.Field("customerName") != "A" || st.Source.TaxRate != 0 {
		t.Fatalf("unexpected committed state: %+v", st.Source)
	}
}

func TestSessionSerializesConcurrentEvents(t *testing.T) {
	r := NewRegistry(New())
	s, _ := r.Create(testSetup())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("f%d", i)
			if _, err := s.Apply(EditSourceField{Name: name, Value: name}); err != nil {
				t.Errorf("apply: %v", err)
			}
		}(i)
	}
	wg.Wait()
	st := s.State()
	for _, q := range st.Quotations() {
		if len(q.Customer) != 50 {
			t.Fatalf("%s has %d fields, want 50", q.ID, len(q.Customer))
		}
	}
}

func TestSessionStateIsACopy(t *testing.T) {
	r := NewRegistry(New())
	s, _ := r.Create(testSetup())
	st := s.State()
	st.Source.Customer["x"] = "y"
	if s.State().Source.Field("x") != "" {
		t.Fatalf("State leaked internal map")
	}
}

func TestSessionOnCommitFollowsCommitOrder(t *testing.T) {
	r := NewRegistry(New())
	s, _ := r.Create(testSetup())
	var (
		mu   sync.Mutex
		seen []string
	)
	record := func(res Result) {
		mu.Lock()
		seen = append(seen, res.State.Source.Field("k"))
		mu.Unlock()
	}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.Apply(EditSourceField{Name: "k", Value: fmt.Sprint(i)}, record); err != nil {
				t.Errorf("apply: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if len(seen) != 50 {
		t.Fatalf("hooks ran %d times, want 50", len(seen))
	}
	if last := seen[len(seen)-1]; last != s.State().Source.Field("k") {
		t.Fatalf("last hook saw %q, committed %q", last, s.State().Source.Field("k"))
	}

	// Rejected events do not run hooks.
	if _, err := s.Apply(ChangeTaxRate{Entity: "gtc", Rate: -1}, record); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(seen) != 50 {
		t.Fatalf("hook ran for a rejected event")
	}
}

func TestSessionWatchBlocksCommits(t *testing.T) {
	r := NewRegistry(New())
	s, _ := r.Create(testSetup())
	done := make(chan struct{})
	s.Watch(func(st State) {
		go func() {
			s.Apply(EditSourceField{Name: "k", Value: "v"})
			close(done)
		}()
		select {
		case <-done:
			t.Errorf("event committed while watching")
		case <-time.After(50 * time.Millisecond):
		}
		if st.Source.Field("k") != "" {
			t.Errorf("snapshot = %q", st.Source.Field("k"))
		}
	})
	<-done
	if s.State().Source.Field("k") != "v" {
		t.Fatalf("event lost after Watch")
	}
}
