package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colgrid/pkg/observability"
	"github.com/matzehuels/colgrid/pkg/observability/prom"
)

// preRun attaches the logger to the command context and, when --metrics-out
// is set, registers Prometheus hooks for the run.
func (c *CLI) preRun(cmd *cobra.Command, args []string) error {
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	if c.metricsOut == "" {
		return nil
	}
	c.metrics = prom.New(appName)
	observability.SetLayoutHooks(c.metrics)
	observability.SetCacheHooks(c.metrics)
	return nil
}

// postRun writes the metrics textfile. Hooks are reset so a later command in
// the same process starts clean.
func (c *CLI) postRun(cmd *cobra.Command, args []string) error {
	if c.metrics == nil {
		return nil
	}
	defer observability.Reset()
	if err := c.metrics.WriteFile(c.metricsOut); err != nil {
		return fmt.Errorf("write metrics %s: %w", c.metricsOut, err)
	}
	c.Logger.Debug("wrote metrics", "path", c.metricsOut)
	return nil
}
