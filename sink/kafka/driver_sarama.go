package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"mtkeras/internal/logging"
	"mtkeras/internal/relation"
	"mtkeras/sink"
)

// driver publishes each report as JSON keyed by relation name and waits for
// the broker to acknowledge it. Messages carry a sequence number in Metadata;
// late delivery reports for earlier, timed-out pushes are skipped.
type driver struct {
	cfg Config
	p   sarama.AsyncProducer
	seq uint64
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: expected Config, got %T", c)
	}
	if cfg.Topic == "" {
		return fmt.Errorf("kafka-sink: topic is required")
	}
	d.cfg = cfg

	sc, err := saramaConfig(cfg)
	if err != nil {
		return err
	}
	d.p, err = sarama.NewAsyncProducer(cfg.Brokers, sc)
	return err
}

func saramaConfig(cfg Config) (*sarama.Config, error) {
	sc := sarama.NewConfig()
	if cfg.Version != "" {
		ver, err := sarama.ParseKafkaVersion(cfg.Version)
		if err != nil {
			return nil, err
		}
		sc.Version = ver
	}
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	if cfg.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if cfg.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = cfg.SASLUser, cfg.SASLPass
	}
	return sc, nil
}

func (d *driver) Push(r relation.Report) error {
	val, err := json.Marshal(r)
	if err != nil {
		return err
	}
	d.seq++
	id := d.seq
	d.p.Input() <- &sarama.ProducerMessage{
		Topic:    d.cfg.Topic,
		Key:      sarama.StringEncoder(r.Relation),
		Value:    sarama.ByteEncoder(val),
		Metadata: id,
	}
	timeout := d.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		select {
		case msg := <-d.p.Successes():
			if msg.Metadata != id {
				logging.L().Warn("late delivery report", "topic", msg.Topic, "offset", msg.Offset)
				continue
			}
			logging.L().Debug("report published", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
			return nil
		case perr := <-d.p.Errors():
			if perr.Msg != nil && perr.Msg.Metadata != id {
				logging.L().Warn("late delivery failure", "err", perr.Err)
				continue
			}
			return fmt.Errorf("kafka-sink: %w", perr.Err)
		case <-deadline.C:
			return fmt.Errorf("kafka-sink: no delivery report after %s", timeout)
		}
	}
}

func (d *driver) Close() error {
	if d.p == nil {
		return nil
	}
	err := d.p.Close()
	d.p = nil
	return err
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
