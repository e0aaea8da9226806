package purchases

import (
	"context"
	"log/slog"
	"time"

	"github.com/Spok95/smartspend/internal/apperr"
	"github.com/Spok95/smartspend/internal/infra/metrics"
)

// Service records purchases. Every mutating call runs in exactly one Tx
// and either commits all rows or none.
type Service struct {
	log    *slog.Logger
	refs   ReferenceStore
	gw     Gateway
	notify Notifier
	loc    *time.Location
	now    func() time.Time
}

func NewService(log *slog.Logger, refs ReferenceStore, gw Gateway, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{log: log, refs: refs, gw: gw, loc: loc, now: time.Now}
}

// WithNotifier sets a notifier called after each committed create/update.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notify = n
	return s
}

func (s *Service) today() time.Time {
	return dateOnly(s.now().In(s.loc))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (p *Purchase, err error) {
	started := time.Now()
	defer func() { metrics.ObservePurchaseOp(OpCreate, started, err) }()

	if err := validateParties(in.UserID, in.ShopID); err != nil {
		return nil, err
	}
	items, total, err := buildItems(in.Items)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, in.UserID, in.ShopID, items); err != nil {
		return nil, err
	}

	date := s.today()
	if in.Date != nil {
		date = dateOnly(*in.Date)
	}
	p = &Purchase{
		UserID:      in.UserID,
		ShopID:      in.ShopID,
		Date:        date,
		TotalAmount: total,
	}

	err = s.inTx(ctx, func(tx Tx) error {
		if err := tx.InsertPurchase(ctx, p); err != nil {
			return apperr.FromDB(err, "insert purchase")
		}
		return insertItems(ctx, tx, p, items)
	})
	if err != nil {
		s.log.Error("purchase create failed", "user_id", in.UserID, "shop_id", in.ShopID, "err", err)
		return nil, err
	}

	s.log.Info("purchase created", "purchase_id", p.ID, "items", len(p.Items), "total", p.TotalAmount.String())
	s.notifySaved(ctx, *p, true)
	return p, nil
}

// Update replaces the header fields and the whole item set. Items not in
// the new list are gone afterwards; there is no merge.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (p *Purchase, err error) {
	started := time.Now()
	defer func() { metrics.ObservePurchaseOp(OpUpdate, started, err) }()

	if id <= 0 {
		return nil, apperr.InvalidArgument("purchase id must be positive")
	}
	if err := validateParties(in.UserID, in.ShopID); err != nil {
		return nil, err
	}
	items, total, err := buildItems(in.Items)
	if err != nil {
		return nil, err
	}

	err = s.inTx(ctx, func(tx Tx) error {
		cur, err := tx.LockPurchase(ctx, id)
		if err != nil {
			return apperr.FromDB(err, "lock purchase")
		}
		if cur == nil {
			return apperr.NotFound("purchase %d not found", id)
		}
		if err := s.checkRefs(ctx, in.UserID, in.ShopID, items); err != nil {
			return err
		}

		p = &Purchase{
			ID:          id,
			UserID:      in.UserID,
			ShopID:      in.ShopID,
			Date:        cur.Date,
			TotalAmount: total,
		}
		if in.Date != nil {
			p.Date = dateOnly(*in.Date)
		}
		if err := tx.UpdatePurchase(ctx, p); err != nil {
			return apperr.FromDB(err, "update purchase")
		}
		removed, err := tx.DeletePurchaseItems(ctx, id)
		if err != nil {
			return apperr.FromDB(err, "delete purchase items")
		}
		s.log.Debug("purchase items replaced", "purchase_id", id, "removed", removed, "added", len(items))
		return insertItems(ctx, tx, p, items)
	})
	if err != nil {
		s.log.Error("purchase update failed", "purchase_id", id, "err", err)
		return nil, err
	}

	s.log.Info("purchase updated", "purchase_id", p.ID, "items", len(p.Items), "total", p.TotalAmount.String())
	s.notifySaved(ctx, *p, false)
	return p, nil
}

// Delete removes the header and its items together.
func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	started := time.Now()
	defer func() { metrics.ObservePurchaseOp(OpDelete, started, err) }()

	if id <= 0 {
		return apperr.InvalidArgument("purchase id must be positive")
	}
	err = s.inTx(ctx, func(tx Tx) error {
		cur, err := tx.LockPurchase(ctx, id)
		if err != nil {
			return apperr.FromDB(err, "lock purchase")
		}
		if cur == nil {
			return apperr.NotFound("purchase %d not found", id)
		}
		if _, err := tx.DeletePurchaseItems(ctx, id); err != nil {
			return apperr.FromDB(err, "delete purchase items")
		}
		deleted, err := tx.DeletePurchase(ctx, id)
		if err != nil {
			return apperr.FromDB(err, "delete purchase")
		}
		if !deleted {
			return apperr.NotFound("purchase %d not found", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("purchase deleted", "purchase_id", id)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (p *Purchase, err error) {
	started := time.Now()
	defer func() { metrics.ObservePurchaseOp(OpGet, started, err) }()

	if id <= 0 {
		return nil, apperr.InvalidArgument("purchase id must be positive")
	}
	p, err = s.gw.GetPurchase(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "get purchase")
	}
	if p == nil {
		return nil, apperr.NotFound("purchase %d not found", id)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) (out []Purchase, err error) {
	started := time.Now()
	defer func() { metrics.ObservePurchaseOp(OpList, started, err) }()

	out, err = s.gw.ListPurchases(ctx)
	if err != nil {
		return nil, apperr.FromDB(err, "list purchases")
	}
	return out, nil
}

// inTx runs fn in a fresh Tx and commits only if fn succeeds.
func (s *Service) inTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return apperr.FromDB(err, "begin transaction")
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.log.Warn("rollback failed", "err", rbErr)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.FromDB(err, "commit purchase")
	}
	return nil
}

func validateParties(userID, shopID int64) error {
	if userID <= 0 {
		return apperr.InvalidArgument("user_id must be positive")
	}
	if shopID <= 0 {
		return apperr.InvalidArgument("shop_id must be positive")
	}
	return nil
}

// checkRefs runs the lookups in a fixed order: user, shop, then products as given.
func (s *Service) checkRefs(ctx context.Context, userID, shopID int64, items []Item) error {
	ok, err := s.refs.UserExists(ctx, userID)
	if err != nil {
		return apperr.Internal("check user", err)
	}
	if !ok {
		return apperr.NotFound("user %d not found", userID)
	}

	ok, err = s.refs.ShopExists(ctx, shopID)
	if err != nil {
		return apperr.Internal("check shop", err)
	}
	if !ok {
		return apperr.NotFound("shop %d not found", shopID)
	}

	for _, it := range items {
		ok, err = s.refs.ProductExists(ctx, it.ProductID)
		if err != nil {
			return apperr.Internal("check product", err)
		}
		if !ok {
			return apperr.NotFound("product %d not found", it.ProductID)
		}
	}
	return nil
}

func insertItems(ctx context.Context, tx Tx, p *Purchase, items []Item) error {
	p.Items = make([]Item, 0, len(items))
	for _, it := range items {
		it.PurchaseID = p.ID
		if err := tx.InsertPurchaseItem(ctx, &it); err != nil {
			return apperr.FromDB(err, "insert purchase item")
		}
		p.Items = append(p.Items, it)
	}
	return nil
}

func (s *Service) notifySaved(ctx context.Context, p Purchase, created bool) {
	if s.notify == nil {
		return
	}
	if err := s.notify.PurchaseSaved(ctx, p, created); err != nil {
		s.log.Warn("purchase notification failed", "purchase_id", p.ID, "err", err)
	}
}
