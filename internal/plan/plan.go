// Package plan is the YAML schema of a metamorphic test run.
package plan

type Source struct {
	Driver string `yaml:"driver"` // "file" or "kafka"
	Path   string `yaml:"path"`   // dataset JSON for the file driver
	Config string `yaml:"config"` // driver config file (kafka)
}

// Transformation is one MRIP step; Params are passed through as transform.Args.
type Transformation struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

type Relation struct {
	Name string `yaml:"name"`
	// Aux is a JSON file holding the auxiliary output sequence of complete
	// (the other follow-up) or difference (expected differences).
	Aux string `yaml:"aux"`
}

type FailurePolicy struct {
	Mode    string `yaml:"mode"` // "fail" (default) or "default"
	Default any    `yaml:"default"`
}

type Oracle struct {
	Kind      string        `yaml:"kind"`    // "grpc", "search" or "sql"
	Address   string        `yaml:"address"` // e.g. "localhost:50051"
	// Preprocess "classifier" sends preprocessed image tensors to the grpc
	// oracle's Classify method instead of raw datasets to Predict.
	Preprocess string `yaml:"preprocess"`
	Endpoint  string        `yaml:"endpoint"`
	Param     string        `yaml:"param"`
	ResultID  string        `yaml:"result_id"`
	DSN       string        `yaml:"dsn"`
	TimeoutMS int           `yaml:"timeout_ms"`
	OnFailure FailurePolicy `yaml:"on_failure"`
}

type sinkConfigs struct {
	Kafka string `yaml:"kafka"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	Domain string  `yaml:"domain"`
	Seed   *uint64 `yaml:"seed"`

	Source Source `yaml:"source"`

	// Ordered list of transformations applied to the follow-up set.
	Transformations []Transformation `yaml:"transformations"`

	Relation Relation `yaml:"relation"`
	Oracle   Oracle   `yaml:"oracle"`

	Sinks       []string    `yaml:"sinks"`
	SinkConfigs sinkConfigs `yaml:"sink_configs"`
}
