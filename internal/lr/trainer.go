package lr

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dreamware/paramserver/internal/cache"
	"github.com/dreamware/paramserver/internal/pull"
	"github.com/dreamware/paramserver/internal/push"
	"github.com/dreamware/paramserver/internal/route"
	"github.com/dreamware/paramserver/internal/table"
	"github.com/dreamware/paramserver/internal/transport"
)

// TrainerConfig holds the tunables Trainer needs from the run's
// configuration.
type TrainerConfig struct {
	Path      string
	Minibatch int
	NThreads  int
	PullClass int32
	PushClass int32
}

// Trainer runs one worker's logistic-regression training loop against a
// parameter server over trans/rt: pull the weights a minibatch touches,
// compute each example's prediction and gradient locally, push the
// averaged per-key gradients back.
type Trainer struct {
	cfg   TrainerConfig
	cache *cache.Cache[float64]
	trans *transport.Transport
	rt    *route.Table
	log   logrus.FieldLogger
}

// NewTrainer builds a Trainer. log may be nil, in which case the standard
// logrus logger is used.
func NewTrainer(cfg TrainerConfig, trans *transport.Transport, rt *route.Table, log logrus.FieldLogger) *Trainer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Trainer{cfg: cfg, cache: cache.New[float64](), trans: trans, rt: rt, log: log}
}

// Train runs the full training loop over the configured instance file
// until it is exhausted.
func (t *Trainer) Train(ctx context.Context) error {
	keys, err := t.prescanKeys()
	if err != nil {
		return fmt.Errorf("lr: prescan: %w", err)
	}
	t.cache.InitKeys(keys)
	if err := pull.IntoCache(ctx, t.trans, t.rt, t.cfg.PullClass, keys, Codec, t.cache); err != nil {
		return fmt.Errorf("lr: initial pull: %w", err)
	}

	file, err := os.Open(t.cfg.Path)
	if err != nil {
		return fmt.Errorf("lr: open %s: %w", t.cfg.Path, err)
	}
	defer file.Close()

	src := newLineSource(bufio.NewScanner(file))
	round := 0
	for {
		instances := gatherInstances(src, t.cfg.Minibatch, t.cfg.NThreads)
		if len(instances) == 0 {
			break
		}
		round++

		roundKeys := keysOf(instances)
		t.cache.InitKeys(roundKeys)
		if err := pull.IntoCache(ctx, t.trans, t.rt, t.cfg.PullClass, roundKeys, Codec, t.cache); err != nil {
			return fmt.Errorf("lr: round %d pull: %w", round, err)
		}

		sumSquaredErr := t.learnMinibatch(instances)

		if err := push.FromCache(ctx, t.trans, t.rt, t.cfg.PushClass, t.cache); err != nil {
			return fmt.Errorf("lr: round %d push: %w", round, err)
		}

		t.log.WithFields(logrus.Fields{
			"round":     round,
			"instances": len(instances),
			"mse":       sumSquaredErr / float64(len(instances)),
		}).Info("lr: minibatch complete")

		if src.atEOF() {
			break
		}
	}
	return nil
}

// prescanKeys reads the whole instance file once to collect every
// feature key it references, so the first pull can bring every key a
// worker will ever touch into its local cache up front.
func (t *Trainer) prescanKeys() ([]table.Key, error) {
	file, err := os.Open(t.cfg.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	src := newLineSource(bufio.NewScanner(file))
	instances := gatherInstances(src, 0, t.cfg.NThreads)
	return keysOf(instances), nil
}

func keysOf(instances []Instance) []table.Key {
	seen := make(map[table.Key]struct{})
	keys := make([]table.Key, 0)
	for _, ins := range instances {
		for _, f := range ins.Feas {
			if _, ok := seen[f.Key]; !ok {
				seen[f.Key] = struct{}{}
				keys = append(keys, f.Key)
			}
		}
	}
	return keys
}

// learnMinibatch computes each instance's prediction against the cache's
// currently pulled weights, accumulates the resulting gradient per
// feature key, and returns the round's summed squared error. Instances
// are distributed across NThreads goroutines; a single instance's work is
// not itself parallelized, mirroring the one-goroutine-per-example-batch
// shape this was ported from.
func (t *Trainer) learnMinibatch(instances []Instance) float64 {
	nthreads := t.cfg.NThreads
	if nthreads < 1 {
		nthreads = 1
	}
	jobs := make(chan Instance, len(instances))
	for _, ins := range instances {
		jobs <- ins
	}
	close(jobs)

	var sumSquaredErr float64
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < nthreads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ins := range jobs {
				errVal := t.learnInstance(ins)
				mu.Lock()
				sumSquaredErr += errVal * errVal
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return sumSquaredErr
}

// learnInstance computes one example's prediction error against the
// cache and accumulates the resulting per-feature gradient. A feature
// key that was somehow never pulled contributes zero to the prediction,
// the same as an absent key behaving as weight zero.
func (t *Trainer) learnInstance(ins Instance) float64 {
	var sum float64
	for _, f := range ins.Feas {
		w, _ := t.cache.Param(f.Key)
		sum += w * f.Value
	}
	predict := 1.0 / (1.0 + math.Exp(-sum))
	errVal := ins.Target - predict

	for _, f := range ins.Feas {
		t.cache.AddGrad(f.Key, errVal*f.Value)
	}
	return errVal
}
