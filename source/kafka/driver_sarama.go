// Package kafka reads a dataset from a Kafka partition: each message value
// is one element in the JSON form of domain.DecodeElement.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"mtkeras/internal/domain"
	"mtkeras/internal/logging"
	"mtkeras/source"
)

type SaramaDriver struct {
	cfg      Config
	consumer sarama.Consumer
}

func (d *SaramaDriver) Configure(raw any) error {
	config, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("kafka-source: expected Config, got %T", raw)
	}
	if config.Topic == "" {
		return fmt.Errorf("kafka-source: topic is required")
	}
	if config.Count <= 0 {
		return fmt.Errorf("kafka-source: count must be > 0")
	}
	d.cfg = config

	ver, err := sarama.ParseKafkaVersion(config.Version)
	if err != nil {
		return err
	}
	sc := sarama.NewConfig()
	sc.Version = ver
	sc.Consumer.Return.Errors = true
	if config.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if config.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = config.SASLUser, config.SASLPass
	}
	d.consumer, err = sarama.NewConsumer(config.Brokers, sc)
	return err
}

func (d *SaramaDriver) offset() int64 {
	if d.cfg.StartFrom == "newest" {
		return sarama.OffsetNewest
	}
	return sarama.OffsetOldest
}

// Load consumes Count messages and decodes them into a dataset of kind.
// A sqlQuery dataset always reads a single message.
func (d *SaramaDriver) Load(ctx context.Context, kind domain.Kind) (domain.Dataset, error) {
	want := d.cfg.Count
	if kind == domain.SQLQuery {
		want = 1
	}
	pc, err := d.consumer.ConsumePartition(d.cfg.Topic, d.cfg.Partition, d.offset())
	if err != nil {
		return nil, err
	}
	defer pc.Close()

	idle := d.cfg.IdleTimeout
	if idle <= 0 {
		idle = 10 * time.Second
	}
	timer := time.NewTimer(idle)
	defer timer.Stop()

	elems := make([]any, 0, want)
	for len(elems) < want {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, fmt.Errorf("kafka-source: got %d of %d messages from %s[%d] before idle timeout",
				len(elems), want, d.cfg.Topic, d.cfg.Partition)
		case cerr := <-pc.Errors():
			return nil, fmt.Errorf("kafka-source: %w", cerr.Err)
		case msg := <-pc.Messages():
			e, err := domain.DecodeElement(kind, msg.Value)
			if err != nil {
				return nil, fmt.Errorf("kafka-source: %s[%d]@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
			}
			elems = append(elems, e)
			logging.L().Debug("dataset element consumed", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
			timer.Reset(idle)
		}
	}
	return domain.Collect(kind, elems)
}

func (d *SaramaDriver) Close() error {
	if d.consumer == nil {
		return nil
	}
	err := d.consumer.Close()
	d.consumer = nil
	return err
}

func init() { source.Register("kafka", func() source.Adapter { return &SaramaDriver{} }) }
