package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"asynctask/internal/logevent"
	"asynctask/internal/relay"
	"asynctask/internal/session"
	"asynctask/internal/sink"
	"asynctask/internal/testutil"
	"asynctask/internal/unit"
)

func newTestRegistry() (*Registry, *testutil.RecordingSink) {
	rec := &testutil.RecordingSink{}
	return New(sink.NewReporter(rec), relay.WaitOptions{PollInterval: time.Millisecond}), rec
}

func TestRegistry_ConcurrentRegistrationKeepsEveryUnit(t *testing.T) {
	testutil.RunWithTimeout(t, 5*time.Second, func() {
		reg, _ := newTestRegistry()
		const goroutines = 16
		const perGoroutine = 64

		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < perGoroutine; i++ {
					reg.Register(unit.New(), "shared")
					reg.Register(unit.New(), fmt.Sprintf("own-%d", g))
				}
			}(g)
		}
		wg.Wait()

		if got := len(reg.Lookup("shared")); got != goroutines*perGoroutine {
			t.Errorf("shared: expected %d units, got %d", goroutines*perGoroutine, got)
		}
		for g := 0; g < goroutines; g++ {
			if got := len(reg.Lookup(fmt.Sprintf("own-%d", g))); got != perGoroutine {
				t.Errorf("own-%d: expected %d units, got %d", g, perGoroutine, got)
			}
		}
		if reg.Count() != goroutines+1 {
			t.Errorf("expected %d categories, got %d", goroutines+1, reg.Count())
		}
	})
}

func TestRegistry_LookupDuringRegistration(t *testing.T) {
	testutil.RunWithTimeout(t, 5*time.Second, func() {
		reg, _ := newTestRegistry()
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 500; i++ {
				reg.Register(unit.New(), "grow")
			}
		}()
		last := 0
		for {
			got := len(reg.Lookup("grow"))
			if got < last {
				t.Errorf("snapshot shrank from %d to %d", last, got)
				return
			}
			last = got
			select {
			case <-done:
				if n := len(reg.Lookup("grow")); n != 500 {
					t.Errorf("expected 500 units, got %d", n)
				}
				return
			default:
			}
		}
	})
}

func TestRegistry_UnknownCategoryIsEmpty(t *testing.T) {
	reg, _ := newTestRegistry()
	if units := reg.Lookup("missing"); len(units) != 0 {
		t.Fatalf("expected no units, got %d", len(units))
	}
	if reg.Count() != 0 {
		t.Fatalf("lookup must not create categories")
	}
}

func TestRegistry_EmptyCategoryMeansDefault(t *testing.T) {
	reg, _ := newTestRegistry()
	u := unit.New()
	reg.Register(u, "")
	units := reg.Lookup(DefaultCategory)
	if len(units) != 1 || units[0] != u {
		t.Fatalf("expected unit under %q, got %v", DefaultCategory, units)
	}
}

func TestRegistry_CategoriesSorted(t *testing.T) {
	reg, _ := newTestRegistry()
	for _, name := range []string{"lint", "build", "test"} {
		reg.Register(unit.New(), name)
	}
	got := reg.Categories()
	if !sort.StringsAreSorted(got) || len(got) != 3 {
		t.Fatalf("unexpected categories: %v", got)
	}
}

func TestRegistry_ShutdownFlushesEveryUnit(t *testing.T) {
	reg, rec := newTestRegistry()
	for i, category := range []string{"a", "a", "b"} {
		u := unit.New(unit.WithName(fmt.Sprintf("u%d", i)))
		if err := u.Go(func(ctx context.Context, log unit.Logger) error {
			time.Sleep(5 * time.Millisecond)
			log.Message("done")
			return nil
		}); err != nil {
			t.Fatalf("start unit: %v", err)
		}
		reg.Register(u, category)
	}

	testutil.RunWithTimeout(t, 2*time.Second, func() {
		reg.Shutdown(context.Background())
	})

	if got := len(rec.Texts(logevent.KindMessage)); got != 3 {
		t.Fatalf("expected 3 flushed messages, got %d", got)
	}
	for _, category := range reg.Categories() {
		for _, u := range reg.Lookup(category) {
			if !u.State().Terminal() {
				t.Fatalf("unit %s not terminal after shutdown", u.Label())
			}
		}
	}
	if reg.Context().Err() == nil {
		t.Fatalf("registry context not cancelled")
	}
	states := rec.Units()
	if len(states) != 3 || states[0].Category != "a" || states[2].Category != "b" {
		t.Fatalf("unexpected unit observations: %+v", states)
	}

	reg.Shutdown(context.Background())
	if len(rec.Units()) != 3 {
		t.Fatalf("second shutdown observed units again")
	}
}

func TestRegistry_RegistryContextIsSeparateFromUnits(t *testing.T) {
	reg, _ := newTestRegistry()
	u := unit.New()
	reg.Register(u, "solo")
	u.Cancel()
	u.Wait(context.Background(), sink.NewReporter(nil), relay.WaitOptions{})
	if reg.Context().Err() != nil {
		t.Fatalf("unit cancellation tripped the registry")
	}
}

func TestGetOrCreate_OncePerSession(t *testing.T) {
	host := session.NewHost()
	rep := sink.NewReporter(nil)

	first := host.BeginWithID("s1")
	a := GetOrCreate(first, rep, relay.WaitOptions{})
	if b := GetOrCreate(first, rep, relay.WaitOptions{}); a != b {
		t.Fatalf("expected the same registry within a session")
	}
	a.Register(unit.New(), "x")
	a.Lookup("x")[0].Complete()

	if err := first.Close(context.Background()); err != nil {
		t.Fatalf("close session: %v", err)
	}
	if a.Context().Err() == nil {
		t.Fatalf("closing the session did not shut the registry down")
	}

	second := host.BeginWithID("s2")
	c := GetOrCreate(second, rep, relay.WaitOptions{})
	if c == a {
		t.Fatalf("new session reused the old registry")
	}
	if c.Count() != 0 {
		t.Fatalf("fresh registry has %d categories", c.Count())
	}
}

func TestRegistry_SaveWritesManifestAtomically(t *testing.T) {
	reg, _ := newTestRegistry()
	done := unit.New(unit.WithName("vet"))
	done.Complete()
	done.Wait(context.Background(), sink.NewReporter(nil), relay.WaitOptions{})
	reg.Register(done, "checks")
	reg.Register(unit.New(unit.WithName("build")), "compile")

	path := filepath.Join(t.TempDir(), "out", "manifest.json")
	if err := reg.Save(path); err != nil {
		t.Fatalf("save manifest: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected tmp file to be removed, got %v", err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if len(m.Categories) != 2 || m.Categories[0].Name != "checks" || m.Categories[1].Name != "compile" {
		t.Fatalf("unexpected categories: %+v", m.Categories)
	}
	if got := m.Categories[0].Units[0]; got.Name != "vet" || got.State != "completed" || got.ID != done.ID() {
		t.Fatalf("unexpected unit entry: %+v", got)
	}
	if got := m.Categories[1].Units[0].State; got != "running" {
		t.Fatalf("unexpected running state: %q", got)
	}

	if err := reg.Save(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
