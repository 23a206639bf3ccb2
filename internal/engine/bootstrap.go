package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/grpc"
	_ "modernc.org/sqlite"

	"mtkeras/internal/config"
	"mtkeras/internal/domain"
	"mtkeras/internal/logging"
	"mtkeras/internal/oracle"
	"mtkeras/internal/plan"
	"mtkeras/internal/relation"
	"mtkeras/internal/telemetry"
	"mtkeras/internal/transport"
	"mtkeras/sink"
	"mtkeras/sink/stdout"
	"mtkeras/source"
	"mtkeras/source/file"

	_ "mtkeras/sink/kafka"
	_ "mtkeras/source/kafka"
)

type Config struct {
	PlanPath    string
	MetricsPort int       // 0 disables /metrics
	Out         io.Writer // stdout sink target, os.Stdout when nil
	// DialOptions are appended when dialing a grpc oracle.
	DialOptions []grpc.DialOption
}

// Bootstrap loads the plan and builds everything a run needs: the source
// dataset, the oracle, the relation and the sinks.
func Bootstrap(ctx context.Context, cfg Config) (*Engine, error) {
	// 1. plan
	p, err := config.LoadPlan(cfg.PlanPath)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	kind, err := domain.ParseKind(p.Domain)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	e := &Engine{plan: p, kind: kind}

	// 2. source dataset
	if e.dataset, err = loadDataset(ctx, p.Source, kind); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	// 3. oracle
	if e.oracle, err = e.buildOracle(p.Oracle, kind, cfg.DialOptions); err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("oracle: %w", err)
	}

	// 4. relation
	if e.relation, err = buildRelation(p.Relation); err != nil {
		_ = e.Close()
		return nil, fmt.Errorf("relation: %w", err)
	}

	// 5. sinks
	for _, name := range p.Sinks {
		s, err := buildSink(name, p, cfg.Out)
		if err != nil {
			_ = e.Close()
			return nil, fmt.Errorf("sink %s: %w", name, err)
		}
		e.sinks = append(e.sinks, s)
	}

	// 6. metrics
	telemetry.Expose(cfg.MetricsPort)

	logging.L().Info("engine ready", "domain", kind, "elements", e.dataset.Len(),
		"transformations", len(p.Transformations), "relation", e.relation.Name(), "oracle", p.Oracle.Kind)
	return e, nil
}

func loadDataset(ctx context.Context, s plan.Source, kind domain.Kind) (domain.Dataset, error) {
	src, err := source.NewAdapter(s.Driver)
	if err != nil {
		return nil, err
	}
	switch s.Driver {
	case "file":
		err = src.Configure(file.Config{Path: s.Path})
	case "kafka":
		kc, lerr := config.LoadKafkaSourceConfig(s.Config)
		if lerr != nil {
			return nil, lerr
		}
		err = src.Configure(kc)
	default:
		err = fmt.Errorf("no config block for source %q", s.Driver)
	}
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.Load(ctx, kind)
}

// buildOracle returns nil when the plan names no oracle; such a plan can
// only generate follow-up sets.
func (e *Engine) buildOracle(o plan.Oracle, kind domain.Kind, dialOpts []grpc.DialOption) (oracle.Oracle, error) {
	if o.Kind == "" {
		return nil, nil
	}
	switch o.Preprocess {
	case "":
	case "classifier":
		if o.Kind != "grpc" {
			return nil, fmt.Errorf("preprocess %q needs a grpc oracle, have %q", o.Preprocess, o.Kind)
		}
		if !kind.IsImage() {
			return nil, domain.DomainMismatchError{Op: "classifier preprocessing", Domain: kind}
		}
	default:
		return nil, fmt.Errorf("unsupported preprocess %q", o.Preprocess)
	}
	mode, err := oracle.ParseFailureMode(o.OnFailure.Mode)
	if err != nil {
		return nil, err
	}
	policy := oracle.FailurePolicy{Mode: mode, Default: o.OnFailure.Default}

	var orc oracle.Oracle
	switch o.Kind {
	case "grpc":
		cli, err := transport.Dial(o.Address, dialOpts...)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", o.Address, err)
		}
		e.closers = append(e.closers, cli)
		orc = cli
		if o.Preprocess == "classifier" {
			orc = oracle.Classifier{Model: cli}
		}
	case "search":
		if o.Endpoint == "" || o.ResultID == "" {
			return nil, fmt.Errorf("search oracle needs endpoint and result_id")
		}
		orc = &oracle.SearchEngine{Endpoint: o.Endpoint, Param: o.Param, ResultID: o.ResultID, Policy: policy}
	case "sql":
		db, err := sql.Open("sqlite", o.DSN)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, db)
		orc = oracle.SQL{DB: db, Policy: policy}
	default:
		return nil, fmt.Errorf("unsupported oracle kind %q", o.Kind)
	}
	timeout := time.Duration(o.TimeoutMS) * time.Millisecond
	return oracle.Instrument(o.Kind, oracle.WithTimeout(orc, timeout)), nil
}

func buildRelation(r plan.Relation) (relation.Relation, error) {
	var aux []domain.Output
	if r.Aux != "" {
		raw, err := os.ReadFile(r.Aux)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &aux); err != nil {
			return nil, fmt.Errorf("%s: %w", r.Aux, err)
		}
	}
	return relation.New(r.Name, aux)
}

func buildSink(name string, p plan.File, out io.Writer) (sink.Adapter, error) {
	s, err := sink.NewAdapter(name)
	if err != nil {
		return nil, err
	}
	switch name {
	case "stdout":
		err = s.Configure(stdout.Config{Out: out, PrintIndices: true})
	case "kafka":
		kc, lerr := config.LoadKafkaSinkConfig(p.SinkConfigs.Kafka)
		if lerr != nil {
			return nil, lerr
		}
		err = s.Configure(kc)
	default:
		err = fmt.Errorf("no config block for sink %q", name)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
