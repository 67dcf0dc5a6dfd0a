package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Keyer builds cache keys.
type Keyer interface {
	// ResultKey identifies a layout result of a scenario.
	ResultKey(scenarioHash string, opts ResultKeyOpts) string

	// ExportKey identifies an encoded export of a result.
	ExportKey(resultHash string, opts ExportKeyOpts) string
}

// ResultKeyOpts are the run options a layout result depends on.
type ResultKeyOpts struct {
	MaxPasses int    `json:"max_passes"`
	Version   string `json:"version"`
}

// ExportKeyOpts are the options an export depends on.
type ExportKeyOpts struct {
	Format    string `json:"format"`
	Precision int    `json:"precision"`
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(scenarioHash string, opts ResultKeyOpts) string {
	return hashKey("result", scenarioHash, opts)
}

// ExportKey implements Keyer.
func (DefaultKeyer) ExportKey(resultHash string, opts ExportKeyOpts) string {
	return hashKey("export", resultHash, opts)
}

// hashKey hashes the JSON encoding of parts under a readable prefix.
func hashKey(prefix string, parts ...any) string {
	data, _ := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}
