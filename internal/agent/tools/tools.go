// Package tools exposes the financial data gateways as LLM-callable tools.
// Tool failures are reported as text in the tool output rather than as
// errors, so the agent can read them and adjust instead of aborting the run.
package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/rs/zerolog"

	"github.com/portfoliogenius/advisor/internal/clients/brave"
	"github.com/portfoliogenius/advisor/internal/clients/tiingo"
	"github.com/portfoliogenius/advisor/internal/clients/yahoo"
)

// Registry assembles the tool set from whichever gateways are configured.
// Yahoo Finance needs no API key and is always present; Tiingo and Brave
// join when their keys are set.
type Registry struct {
	yahoo            *yahoo.Client
	tiingo           *tiingo.Client
	brave            *brave.Client
	openAIConfigured bool
	log              zerolog.Logger
}

// NewRegistry creates a tool registry over the given gateway clients
func NewRegistry(y *yahoo.Client, t *tiingo.Client, b *brave.Client, openAIConfigured bool, log zerolog.Logger) *Registry {
	return &Registry{
		yahoo:            y,
		tiingo:           t,
		brave:            b,
		openAIConfigured: openAIConfigured,
		log:              log.With().Str("component", "tools").Logger(),
	}
}

// Tools returns the currently available tool set
func (r *Registry) Tools() []tool.BaseTool {
	list := yahooTools(r.yahoo)

	if r.tiingo.Available() {
		list = append(list, tiingoTools(r.tiingo)...)
		list = append(list, indicatorTool(r.tiingo))
	}
	if r.brave.Available() {
		list = append(list, braveTools(r.brave)...)
	}

	return list
}

// Report describes the available tools and API key status
type Report struct {
	TotalTools     int             `json:"total_tools"`
	APIKeysStatus  map[string]bool `json:"api_keys_status"`
	AvailableTools []string        `json:"available_tools"`
}

// Describe builds a tool availability report
func (r *Registry) Describe(ctx context.Context) Report {
	list := r.Tools()

	names := make([]string, 0, len(list))
	for _, t := range list {
		info, err := t.Info(ctx)
		if err != nil {
			r.log.Warn().Err(err).Msg("Failed to read tool info")
			continue
		}
		names = append(names, info.Name)
	}

	return Report{
		TotalTools: len(list),
		APIKeysStatus: map[string]bool{
			"openai":       r.openAIConfigured,
			"tiingo":       r.tiingo.Available(),
			"brave_search": r.brave.Available(),
		},
		AvailableTools: names,
	}
}
