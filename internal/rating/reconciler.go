package rating

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSchedule    = "@every 1h"
	defaultConcurrency = 8
	runTimeout         = 10 * time.Minute
)

type ProductLister interface {
	ProductIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

// Reconciler recalcule périodiquement la note de tous les produits.
// Rattrape les recalculs échoués après une écriture d'avis.
type Reconciler struct {
	products    ProductLister
	agg         *Aggregator
	concurrency int
	sched       *cron.Cron
}

func NewReconciler(products ProductLister, agg *Aggregator) *Reconciler {
	return &Reconciler{products: products, agg: agg, concurrency: defaultConcurrency}
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Run recalcule chaque produit; les erreurs individuelles n'interrompent pas les autres
func (r *Reconciler) Run(ctx context.Context) (int, error) {
	ids, err := r.products.ProductIDs(ctx)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	errs := make([]error, len(ids))
	for i, id := range ids {
		g.Go(func() error {
			if _, err := r.agg.Recompute(gctx, id); err != nil {
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	err = errors.Join(errs...)
	failed := 0
	for _, e := range errs {
		if e != nil {
			failed++
		}
	}
	return len(ids) - failed, err
}

// Start planifie Run selon schedule. Une expression vide désactive le job.
func (r *Reconciler) Start(schedule string) error {
	if schedule == "" {
		zap.L().Info("⏸️ Réconciliation des notes désactivée")
		return nil
	}
	r.sched = cron.New(cron.WithParser(cronParser))
	_, err := r.sched.AddFunc(schedule, r.runJob)
	if err != nil {
		return err
	}
	r.sched.Start()
	zap.L().Info("⏰ Réconciliation des notes planifiée", zap.String("schedule", schedule))
	return nil
}

func (r *Reconciler) runJob() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	start := time.Now()
	n, err := r.Run(ctx)
	if err != nil {
		zap.L().Warn("⚠️ Réconciliation des notes incomplète", zap.Int("updated", n), zap.Error(err))
		return
	}
	zap.L().Info("✅ Notes réconciliées", zap.Int("products", n), zap.Duration("took", time.Since(start)))
}

// Stop attend la fin d'un run en cours
func (r *Reconciler) Stop() {
	if r.sched == nil {
		return
	}
	<-r.sched.Stop().Done()
}
