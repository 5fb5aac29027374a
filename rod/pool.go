package rod

import (
	"sync"

	"github.com/go-rod/rod"
	"github.com/kdr/tldr"
)

// instance is one launched browser and its page bookkeeping.
type instance struct {
	browser  *rod.Browser
	shutdown func() error

	served  int  // pages handed out over the instance's life
	active  int  // pages not yet released
	retired bool // replaced; shut down once active reaches zero
}

// browserPool hands out the current browser and replaces it after maxPages
// pages. A replaced browser keeps serving its open pages and is shut down
// when the last of them is released.
type browserPool struct {
	launch   func() (*instance, error)
	maxPages int

	mu      sync.Mutex
	current *instance
	closed  bool
}

func newBrowserPool(launch func() (*instance, error), maxPages int) (*browserPool, error) {
	inst, err := launch()
	if err != nil {
		return nil, err
	}
	return &browserPool{launch: launch, maxPages: maxPages, current: inst}, nil
}

// acquire reserves a page slot on the current browser. Every successful
// acquire must be paired with release.
func (p *browserPool) acquire() (*instance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, tldr.Errorf(tldr.EINVALID, "fetcher is closed")
	}

	if p.maxPages > 0 && p.current.served >= p.maxPages {
		// On relaunch failure keep serving from the old browser.
		if next, err := p.launch(); err == nil {
			p.retire(p.current)
			p.current = next
		}
	}

	p.current.served++
	p.current.active++
	return p.current, nil
}

// release returns a page slot taken by acquire.
func (p *browserPool) release(inst *instance) {
	p.mu.Lock()
	defer p.mu.Unlock()

	inst.active--
	if inst.retired && inst.active == 0 {
		_ = inst.shutdown()
	}
}

// close retires the current browser and rejects further acquires.
// Browsers with open pages shut down when those pages are released.
func (p *browserPool) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.retire(p.current)
}

// retire marks inst replaced and shuts it down if no page is open.
// Must be called with mu held.
func (p *browserPool) retire(inst *instance) error {
	inst.retired = true
	if inst.active == 0 {
		return inst.shutdown()
	}
	return nil
}
