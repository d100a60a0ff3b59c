package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer derives cache keys for the entry kinds necklace stores.
type Keyer interface {
	// ReportKey identifies a trial report for a group set fingerprint.
	ReportKey(fingerprint string, opts ReportKeyOpts) string

	// SampleKey identifies a single sampled sequence for a group set fingerprint.
	SampleKey(fingerprint string, opts SampleKeyOpts) string
}

// ReportKeyOpts lists every option that changes a trial report.
// Worker count is included because each worker draws from its own seed stream.
type ReportKeyOpts struct {
	Trials  int    `json:"trials"`
	Workers int    `json:"workers"`
	Seed    uint64 `json:"seed"`
	Anchor  string `json:"anchor,omitempty"`
	Top     int    `json:"top"`
	Keep    bool   `json:"keep,omitempty"`
}

// SampleKeyOpts lists every option that changes a sampled sequence.
type SampleKeyOpts struct {
	Seed   uint64 `json:"seed"`
	Anchor string `json:"anchor,omitempty"`
}

// DefaultKeyer hashes the options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ReportKey returns "report:<sha256>" over the fingerprint and options.
func (k *DefaultKeyer) ReportKey(fingerprint string, opts ReportKeyOpts) string {
	return hashKey("report", fingerprint, opts)
}

// SampleKey returns "sample:<sha256>" over the fingerprint and options.
func (k *DefaultKeyer) SampleKey(fingerprint string, opts SampleKeyOpts) string {
	return hashKey("sample", fingerprint, opts)
}

// hashKey returns prefix:sha256(json(parts)). Option structs marshal with
// fixed field order, so equal options always give equal keys.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. File cache entries are sharded by
// its first two characters.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
