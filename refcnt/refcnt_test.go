package refcnt

import (
	"sync"
	"testing"
)

func TestInitAndReferenced(t *testing.T) {
	var c Count
	if c.Referenced() {
		t.Error("zero Count reports Referenced")
	}
	c.Init(1)
	if !c.Referenced() {
		t.Error("Count not Referenced after Init(1)")
	}
}

func TestUpdateRelease(t *testing.T) {
	var c Count
	c.Init(1)

	if Update(&c, nil) != true {
		t.Error("dropping the last reference did not report destroy")
	}
	if c.Referenced() {
		t.Error("Count still Referenced after last release")
	}
}

func TestUpdateRetain(t *testing.T) {
	var c Count
	c.Init(1)

	if Update(nil, &c) {
		t.Error("taking a reference reported destroy")
	}

	// Two references now; the first release must not destroy.
	if Update(&c, nil) {
		t.Error("destroy reported with a reference outstanding")
	}
	if !Update(&c, nil) {
		t.Error("destroy not reported on the last release")
	}
}

func TestUpdateMove(t *testing.T) {
	var old, repl Count
	old.Init(1)
	repl.Init(1)

	if !Update(&old, &repl) {
		t.Error("old not destroyed when its last reference moved away")
	}
	// repl carries two references: the creation one and the moved one.
	if Update(&repl, nil) {
		t.Error("repl destroyed while the moved reference remains")
	}
	if !Update(&repl, nil) {
		t.Error("repl not destroyed on final release")
	}
}

func TestUpdateSameCounter(t *testing.T) {
	var c Count
	c.Init(1)

	if Update(&c, &c) {
		t.Error("self-update reported destroy")
	}
	if !c.Referenced() {
		t.Error("self-update changed the count")
	}
}

func TestUpdateNilBoth(t *testing.T) {
	if Update(nil, nil) {
		t.Error("Update(nil, nil) reported destroy")
	}
}

func TestConcurrentRetainRelease(t *testing.T) {
	const goroutines = 8
	const rounds = 1000

	var c Count
	c.Init(1)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				Update(nil, &c)
				if Update(&c, nil) {
					t.Error("count hit zero while the creation reference is held")
					return
				}
			}
		}()
	}
	wg.Wait()

	if !Update(&c, nil) {
		t.Error("final release did not report destroy")
	}
}
