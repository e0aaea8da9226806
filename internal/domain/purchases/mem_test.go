package purchases

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
)

// memGateway keeps committed state and hands out one Tx at a time,
// which mirrors the row lock the Postgres gateway takes.
type memGateway struct {
	mu        sync.Mutex
	txLock    sync.Mutex
	state     memState
	failItems int // fail the n-th item insert of the next tx, 0 = never
}

type memState struct {
	nextPurchase int64
	nextItem     int64
	purchases    map[int64]Purchase
	items        map[int64]Item
}

func (s memState) clone() memState {
	c := memState{
		nextPurchase: s.nextPurchase,
		nextItem:     s.nextItem,
		purchases:    make(map[int64]Purchase, len(s.purchases)),
		items:        make(map[int64]Item, len(s.items)),
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	return c
}

func newMemGateway() *memGateway {
	return &memGateway{state: memState{
		purchases: map[int64]Purchase{},
		items:     map[int64]Item{},
	}}
}

func (g *memGateway) Begin(_ context.Context) (Tx, error) {
	g.txLock.Lock()
	g.mu.Lock()
	defer g.mu.Unlock()
	t := &memTx{g: g, work: g.state.clone(), failItems: g.failItems}
	g.failItems = 0
	return t, nil
}

func (g *memGateway) GetPurchase(_ context.Context, id int64) (*Purchase, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.state.purchases[id]
	if !ok {
		return nil, nil
	}
	p.Items = g.state.itemsOf(id)
	return &p, nil
}

func (g *memGateway) ListPurchases(_ context.Context) ([]Purchase, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []Purchase{}
	for id, p := range g.state.purchases {
		p.Items = g.state.itemsOf(id)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (g *memGateway) counts() (purchases, items int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.state.purchases), len(g.state.items)
}

func (g *memGateway) itemsOf(purchaseID int64) []Item {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.itemsOf(purchaseID)
}

func (s memState) itemsOf(purchaseID int64) []Item {
	out := []Item{}
	for _, it := range s.items {
		if it.PurchaseID == purchaseID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// seed stores a committed purchase with a fixed id.
func (g *memGateway) seed(p Purchase) {
	g.mu.Lock()
	defer g.mu.Unlock()
	items := p.Items
	p.Items = nil
	g.state.purchases[p.ID] = p
	if p.ID > g.state.nextPurchase {
		g.state.nextPurchase = p.ID
	}
	for _, it := range items {
		g.state.nextItem++
		it.ID = g.state.nextItem
		it.PurchaseID = p.ID
		g.state.items[it.ID] = it
	}
}

type memTx struct {
	g         *memGateway
	work      memState
	done      bool
	inserted  int
	failItems int
}

var errTxDone = errors.New("tx already closed")

func (t *memTx) LockPurchase(_ context.Context, id int64) (*Purchase, error) {
	p, ok := t.work.purchases[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (t *memTx) InsertPurchase(_ context.Context, p *Purchase) error {
	t.work.nextPurchase++
	p.ID = t.work.nextPurchase
	h := *p
	h.Items = nil
	t.work.purchases[p.ID] = h
	return nil
}

func (t *memTx) UpdatePurchase(_ context.Context, p *Purchase) error {
	cur, ok := t.work.purchases[p.ID]
	if !ok {
		return errors.New("no rows")
	}
	p.CreatedAt = cur.CreatedAt
	h := *p
	h.Items = nil
	t.work.purchases[p.ID] = h
	return nil
}

func (t *memTx) InsertPurchaseItem(_ context.Context, it *Item) error {
	t.inserted++
	if t.failItems > 0 && t.inserted == t.failItems {
		return &pgconn.PgError{Code: "23503", Message: "fk violation"}
	}
	if _, ok := t.work.purchases[it.PurchaseID]; !ok {
		return &pgconn.PgError{Code: "23503", Message: "purchase missing"}
	}
	t.work.nextItem++
	it.ID = t.work.nextItem
	t.work.items[it.ID] = *it
	return nil
}

func (t *memTx) DeletePurchaseItems(_ context.Context, purchaseID int64) (int64, error) {
	var n int64
	for id, it := range t.work.items {
		if it.PurchaseID == purchaseID {
			delete(t.work.items, id)
			n++
		}
	}
	return n, nil
}

func (t *memTx) DeletePurchase(_ context.Context, id int64) (bool, error) {
	if _, ok := t.work.purchases[id]; !ok {
		return false, nil
	}
	delete(t.work.purchases, id)
	return true, nil
}

func (t *memTx) Commit(_ context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.g.mu.Lock()
	t.g.state = t.work
	t.g.mu.Unlock()
	t.g.txLock.Unlock()
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.g.txLock.Unlock()
	return nil
}

type memRefs struct {
	users, shops, products map[int64]bool
	calls                  []string
}

func newMemRefs() *memRefs {
	return &memRefs{
		users:    map[int64]bool{1: true},
		shops:    map[int64]bool{1: true},
		products: map[int64]bool{1: true, 2: true, 3: true},
	}
}

func (r *memRefs) UserExists(_ context.Context, id int64) (bool, error) {
	r.calls = append(r.calls, "user")
	return r.users[id], nil
}

func (r *memRefs) ShopExists(_ context.Context, id int64) (bool, error) {
	r.calls = append(r.calls, "shop")
	return r.shops[id], nil
}

func (r *memRefs) ProductExists(_ context.Context, id int64) (bool, error) {
	r.calls = append(r.calls, "product")
	return r.products[id], nil
}

type recordingNotifier struct {
	saved []Purchase
	err   error
}

func (n *recordingNotifier) PurchaseSaved(_ context.Context, p Purchase, _ bool) error {
	n.saved = append(n.saved, p)
	return n.err
}
