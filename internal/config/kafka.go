package config

import (
	sinkkafka "mtkeras/sink/kafka"
	srckafka "mtkeras/source/kafka"
)

// LoadKafkaSourceConfig delegates to the Kafka source loader while
// centralizing loader entrypoints under internal/config.
func LoadKafkaSourceConfig(path string) (srckafka.Config, error) {
	return srckafka.LoadConfig(path)
}

// LoadKafkaSinkConfig delegates to the Kafka sink loader.
func LoadKafkaSinkConfig(path string) (sinkkafka.Config, error) {
	return sinkkafka.LoadConfig(path)
}
