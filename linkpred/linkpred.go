// Package linkpred runs a configured set of predictors on a training
// network and hands their predictions to the configured outputs.
package linkpred

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/linkpred/golinkpred/evaluation"
	"github.com/linkpred/golinkpred/listeners"
	"github.com/linkpred/golinkpred/network"
	"github.com/linkpred/golinkpred/predictors"
	"github.com/linkpred/golinkpred/store"
	"github.com/linkpred/golinkpred/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoPredictors  = errors.New("no predictor specified")
	ErrNoTestNetwork = errors.New("cannot evaluate without test network")
	ErrBadExclude    = errors.New("unexpected value for exclude")
	ErrUnknownOutput = errors.New("unknown output")
)

// DefaultDatabase is the name of the store database in the output
// directory when no database is configured.
const DefaultDatabase = "linkpred.db"

// LinkPred holds the networks of a run and the outputs listening to it.
type LinkPred struct {
	profile types.Profile
	fs      afero.Fs

	Label    string
	Training *network.Graph
	Test     *network.Graph
	Run      uuid.UUID

	excluded mapset.Set[evaluation.Pair]
	bus      *listeners.Bus
	store    *store.Store
}

// New reads the networks named in profile from fs.
func New(profile types.Profile, fs afero.Fs) (*LinkPred, error) {
	if len(profile.Predictors) == 0 {
		return nil, fmt.Errorf("%w. Aborting...", ErrNoPredictors)
	}
	switch profile.Exclude {
	case "", "old", "new":
	default:
		return nil, fmt.Errorf("%w: '%s'. Use either 'old', 'new' or empty string '' (for no exclusions)", ErrBadExclude, profile.Exclude)
	}
	if profile.Jobs < 1 {
		profile.Jobs = 1
	}
	lp := &LinkPred{
		profile: profile,
		fs:      fs,
		Label:   profile.Label,
		Run:     uuid.New(),
		bus:     listeners.NewBus(),
	}
	if lp.Label == "" {
		base := filepath.Base(profile.TrainingFile)
		lp.Label = strings.TrimSuffix(base, filepath.Ext(base))
	}
	var err error
	if lp.Training, err = network.ReadFile(fs, profile.TrainingFile); err != nil {
		return nil, err
	}
	if profile.TestFile != "" {
		if lp.Test, err = network.ReadFile(fs, profile.TestFile); err != nil {
			return nil, err
		}
	}
	logrus.Debugf("Config: %+v", profile)
	return lp, nil
}

// Close closes the evaluation store, if any.
func (lp *LinkPred) Close() error {
	if lp.store == nil {
		return nil
	}
	return lp.store.Close()
}

// Preprocess removes self-loops and nodes of low degree, then keeps only
// the nodes the training and test networks have in common.
func (lp *LinkPred) Preprocess() {
	logrus.Info("Starting preprocessing...")
	preprocessed := func(g *network.Graph) *network.Graph {
		return network.WithoutLowDegreeNodes(network.WithoutSelfLoops(g), lp.profile.MinDegree, lp.profile.Eligible)
	}
	if lp.Test != nil {
		networks := network.WithoutUncommonNodes([]*network.Graph{preprocessed(lp.Training), preprocessed(lp.Test)}, lp.profile.Eligible)
		lp.Training, lp.Test = networks[0], networks[1]
	} else {
		lp.Training = preprocessed(lp.Training)
	}
	lp.excluded = nil
	logrus.Info("Finished preprocessing.")
}

// Excluded returns the pairs that are never predicted: the training edges
// for exclude "old", the training non-edges for "new", none otherwise.
func (lp *LinkPred) Excluded() mapset.Set[evaluation.Pair] {
	if lp.excluded != nil {
		return lp.excluded
	}
	excluded := mapset.NewThreadUnsafeSet[evaluation.Pair]()
	g := lp.Training
	switch lp.profile.Exclude {
	case "old":
		for _, e := range g.Edges() {
			excluded.Add(evaluation.MustPair(g.Label(e.U), g.Label(e.V)))
		}
	case "new":
		for u := 0; u < g.Len(); u++ {
			for v := u + 1; v < g.Len(); v++ {
				if !g.HasEdge(u, v) && !g.HasEdge(v, u) {
					excluded.Add(evaluation.MustPair(g.Label(u), g.Label(v)))
				}
			}
		}
	}
	lp.excluded = excluded
	return excluded
}

// Relevant returns the test edges that are not excluded, sorted.
func (lp *LinkPred) Relevant() []evaluation.Pair {
	if lp.Test == nil {
		return nil
	}
	excluded := lp.Excluded()
	set := mapset.NewThreadUnsafeSet[evaluation.Pair]()
	for _, e := range lp.Test.Edges() {
		p := evaluation.MustPair(lp.Test.Label(e.U), lp.Test.Label(e.V))
		if !excluded.Contains(p) {
			set.Add(p)
		}
	}
	relevant := set.ToSlice()
	sort.Slice(relevant, func(i, j int) bool { return relevant[i].Less(relevant[j]) })
	return relevant
}

// Universe is the number of pairs of test nodes that are not excluded.
func (lp *LinkPred) Universe() evaluation.Universe[evaluation.Pair] {
	n := lp.Test.Len()
	return evaluation.UniverseSize[evaluation.Pair](n*(n-1)/2 - lp.Excluded().Cardinality())
}

// Subscribe adds a listener after the configured outputs.
func (lp *LinkPred) Subscribe(l listeners.Listener) {
	lp.bus.Subscribe(l)
}

// SetupOutput subscribes a listener for every configured output. Outputs
// other than cache-predictions need a test network.
func (lp *LinkPred) SetupOutput(files listeners.Files) error {
	var evaluator *listeners.Evaluator
	for _, output := range lp.profile.Output {
		name := strings.ToLower(output)
		if name != "cache-predictions" && evaluator == nil {
			if lp.Test == nil {
				return fmt.Errorf("%w (%s)", ErrNoTestNetwork, output)
			}
			evaluator = listeners.NewEvaluator(lp.bus, lp.Relevant(), lp.Universe(), lp.profile.Steps)
			lp.bus.Subscribe(evaluator)
		}

		var l listeners.Listener
		switch name {
		case "cache-predictions":
			l = &listeners.CachePredictions{Files: files}
		case "cache-evaluations":
			l = &listeners.CacheEvaluations{Files: files}
		case "recall-precision":
			l = listeners.NewRecallPrecision(files, lp.Label, lp.profile.Interpolation)
		case "f-score":
			l = listeners.NewFScore(files, lp.Label, lp.profile.FMaxBeta)
		case "roc":
			l = listeners.NewROC(files, lp.Label)
		case "markedness":
			l = listeners.NewMarkedness(files, lp.Label)
		case "fmax":
			l = listeners.NewFMax(files, lp.Label, lp.profile.FMaxBeta)
		case "precision-at-k":
			l = listeners.NewPrecisionAtK(files, lp.Label, lp.profile.PrecisionAt)
		case "store":
			if lp.store == nil {
				path := lp.profile.Database
				if path == "" {
					path = filepath.Join(files.Dir, DefaultDatabase)
				}
				s, err := store.Open(path)
				if err != nil {
					return err
				}
				lp.store = s
				logrus.Infof("Storing evaluations of run %s in %s", lp.Run, path)
			}
			l = &listeners.Store{Saver: lp.store, Run: lp.Run}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownOutput, output)
		}
		lp.bus.Subscribe(l)
		logrus.Debugf("Added listener for '%s'", output)
	}
	return nil
}

// DisplayName is the configured display name of a predictor, or its name
// followed by its parameters, e.g. "Katz (beta = 0.01, max_power = 3)".
func DisplayName(p types.PredictorProfile) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if len(p.Parameters) == 0 {
		return p.Name
	}
	keys := make([]string, 0, len(p.Parameters))
	for k := range p.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	params := make([]string, len(keys))
	for i, k := range keys {
		params[i] = fmt.Sprintf("%s = %v", k, p.Parameters[k])
	}
	return fmt.Sprintf("%s (%s)", p.Name, strings.Join(params, ", "))
}

func (lp *LinkPred) predict(p types.PredictorProfile) (*evaluation.Scoresheet, error) {
	label := DisplayName(p)
	logrus.Infof("Executing %s...", label)
	predictor, err := predictors.New(p.Name, lp.Training, lp.profile.Eligible)
	if err != nil {
		return nil, err
	}
	sheet, err := predictor.Predict(predictors.Params(p.Parameters))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	sheet = predictors.FilterExcluded(sheet, lp.Excluded())
	logrus.Infof("Finished executing %s.", label)
	return sheet, nil
}

type slot struct {
	sheet *evaluation.Scoresheet
	done  chan struct{}
}

// PredictAll runs the predictors, at most jobs at a time, and delivers
// their predictions to the listeners in the configured order. It then
// signals the end of the dataset and of the run.
func (lp *LinkPred) PredictAll(ctx context.Context) error {
	// Workers read the exclusion set concurrently.
	lp.Excluded()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lp.profile.Jobs)

	profiles := lp.profile.Predictors
	slots := make([]slot, len(profiles))
	for i := range slots {
		slots[i].done = make(chan struct{})
	}
	submitted := make(chan struct{})
	go func() {
		defer close(submitted)
		for i := range profiles {
			i := i
			g.Go(func() error {
				defer close(slots[i].done)
				if err := gctx.Err(); err != nil {
					return err
				}
				sheet, err := lp.predict(profiles[i])
				slots[i].sheet = sheet
				return err
			})
		}
	}()
	wait := func() error {
		<-submitted
		return g.Wait()
	}

deliver:
	for i := range slots {
		select {
		case <-slots[i].done:
		case <-gctx.Done():
			break deliver
		}
		if slots[i].sheet == nil {
			break deliver
		}
		label := DisplayName(profiles[i])
		logrus.Debugf("Predictor '%s' yields %d predictions", label, slots[i].sheet.Len())
		if err := lp.bus.PredictionFinished(slots[i].sheet, lp.Label, label); err != nil {
			cancel()
			wait()
			return err
		}
	}
	if err := wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := lp.bus.DatasetFinished(lp.Label); err != nil {
		return err
	}
	if err := lp.bus.RunFinished(); err != nil {
		return err
	}
	logrus.Info("Prediction run finished")
	return nil
}

// Run reads, preprocesses and predicts as configured by profile, writing
// outputs to files.
func Run(ctx context.Context, profile types.Profile, fs afero.Fs, files listeners.Files) error {
	lp, err := New(profile, fs)
	if err != nil {
		return err
	}
	defer lp.Close()
	lp.Preprocess()
	if err := lp.SetupOutput(files); err != nil {
		return err
	}
	return lp.PredictAll(ctx)
}
