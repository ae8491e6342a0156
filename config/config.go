// Package config provides configuration structures for the application.
package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Path         string    `json:"path" yaml:"path" mapstructure:"path"`
	Debug        bool      `json:"debug" yaml:"debug" mapstructure:"debug"`
	DebugModules []string  `json:"debugModules" yaml:"debugModules" mapstructure:"debugModules"`
	DisableANSI  bool      `json:"disableANSI" yaml:"disableANSI" mapstructure:"disableANSI"`
	ConfigPath   string    `json:"configPath" yaml:"configPath" mapstructure:"configPath"`
	Execute      Execute   `json:"execute" yaml:"execute" mapstructure:"execute"`
	FileStore    FileStore `json:"fileStore" yaml:"fileStore" mapstructure:"fileStore"`
	Storage      Storage   `json:"storage" yaml:"storage" mapstructure:"storage"`
	Serve        Serve     `json:"serve" yaml:"serve" mapstructure:"serve"`
	Report       Report    `json:"report" yaml:"report" mapstructure:"report"`
	SentryDSN    string    `json:"sentryDSN" yaml:"sentryDSN" mapstructure:"sentryDSN"`
	Version      string    `json:"version" yaml:"version" mapstructure:"version"`
}

type Execute struct {
	BatchFiles         []string `json:"batchFiles" yaml:"batchFiles" mapstructure:"batchFiles"`
	APITimeout         uint64   `json:"apiTimeout" yaml:"apiTimeout" mapstructure:"apiTimeout"`
	RateLimit          float64  `json:"rateLimit" yaml:"rateLimit" mapstructure:"rateLimit"`
	Burst              int      `json:"burst" yaml:"burst" mapstructure:"burst"`
	InsecureSkipVerify bool     `json:"insecureSkipVerify" yaml:"insecureSkipVerify" mapstructure:"insecureSkipVerify"`
	ParallelBatches    int      `json:"parallelBatches" yaml:"parallelBatches" mapstructure:"parallelBatches"`
	Quiet              bool     `json:"quiet" yaml:"quiet" mapstructure:"quiet"`
}

type FileStore struct {
	IndexPath string `json:"indexPath" yaml:"indexPath" mapstructure:"indexPath"`
	CacheSize int    `json:"cacheSize" yaml:"cacheSize" mapstructure:"cacheSize"`
}

type Storage struct {
	Kind     StorageKind `json:"kind" yaml:"kind" mapstructure:"kind"`
	MongoURI string      `json:"mongoURI" yaml:"mongoURI" mapstructure:"mongoURI"`
	Database string      `json:"database" yaml:"database" mapstructure:"database"`
}

type Serve struct {
	Port uint32 `json:"port" yaml:"port" mapstructure:"port"`
}

type Report struct {
	RecordID string `json:"recordId" yaml:"recordId" mapstructure:"recordId"`
}

type StorageKind string

const (
	StorageYaml  StorageKind = "yaml"
	StorageMongo StorageKind = "mongo"
)

// String is used both by fmt.Print and by Cobra in help text
func (k *StorageKind) String() string {
	return string(*k)
}

// Set must have pointer receiver to avoid changing the value of a copy
func (k *StorageKind) Set(v string) error {
	switch StorageKind(strings.ToLower(v)) {
	case StorageYaml, StorageMongo:
		*k = StorageKind(strings.ToLower(v))
		return nil
	default:
		return fmt.Errorf(`must be one of %q or %q`, StorageYaml, StorageMongo)
	}
}

// Type is only used in help text
func (k *StorageKind) Type() string {
	return "storage"
}

// Timeout returns the per-request timeout for the case executor.
func (e Execute) Timeout() time.Duration {
	if e.APITimeout == 0 {
		return 30 * time.Second
	}
	return time.Duration(e.APITimeout) * time.Second
}
