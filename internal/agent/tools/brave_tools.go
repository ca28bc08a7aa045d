package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	t_utils "github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/portfoliogenius/advisor/internal/clients/brave"
)

type braveSearchInput struct {
	Query      string `json:"query"`
	Count      int    `json:"count"`
	Country    string `json:"country"`
	SearchLang string `json:"search_lang"`
	Safesearch string `json:"safesearch"`
	Freshness  string `json:"freshness"`
}

type braveWebOutput struct {
	Results []brave.WebResult `json:"results,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type braveNewsOutput struct {
	Results []brave.NewsResult `json:"results,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type braveMediaOutput struct {
	Results []brave.MediaResult `json:"results,omitempty"`
	Error   string              `json:"error,omitempty"`
}

type braveSummaryOutput struct {
	Summary *brave.Summary `json:"summary,omitempty"`
	Error   string         `json:"error,omitempty"`
}

var braveCommonParams = map[string]*schema.ParameterInfo{
	"query": {
		Type:     "string",
		Desc:     "The search query",
		Required: true,
	},
	"count": {
		Type:     "integer",
		Desc:     "Number of results to return (1-20, default 10)",
		Required: false,
	},
	"country": {
		Type:     "string",
		Desc:     "Two-letter country code (default US)",
		Required: false,
	},
	"search_lang": {
		Type:     "string",
		Desc:     "Search language code (default en)",
		Required: false,
	},
}

func braveTools(client *brave.Client) []tool.BaseTool {
	webTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "brave_web_search",
			Desc: "Search the web for current information and real-time data",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query":       braveCommonParams["query"],
				"count":       braveCommonParams["count"],
				"country":     braveCommonParams["country"],
				"search_lang": braveCommonParams["search_lang"],
				"safesearch": {
					Type:     "string",
					Desc:     "Safe search level: off, moderate, or strict (default moderate)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input braveSearchInput) (*braveWebOutput, error) {
			results, err := client.WebSearch(ctx, input.Query, input.Count, input.Country, input.SearchLang, input.Safesearch)
			if err != nil {
				return &braveWebOutput{Error: fmt.Sprintf("Error performing web search: %v", err)}, nil
			}
			return &braveWebOutput{Results: results}, nil
		},
	)

	newsTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "brave_news_search",
			Desc: "Search for recent news articles from across the web",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query":       braveCommonParams["query"],
				"count":       braveCommonParams["count"],
				"country":     braveCommonParams["country"],
				"search_lang": braveCommonParams["search_lang"],
				"freshness": {
					Type:     "string",
					Desc:     "Result freshness: pd (day), pw (week), pm (month), py (year)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input braveSearchInput) (*braveNewsOutput, error) {
			results, err := client.NewsSearch(ctx, input.Query, input.Count, input.Country, input.SearchLang, input.Freshness)
			if err != nil {
				return &braveNewsOutput{Error: fmt.Sprintf("Error performing news search: %v", err)}, nil
			}
			return &braveNewsOutput{Results: results}, nil
		},
	)

	imageTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "brave_image_search",
			Desc: "Search for images on any topic",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": braveCommonParams["query"],
				"count": braveCommonParams["count"],
				"safesearch": {
					Type:     "string",
					Desc:     "Safe search level: off or strict (default strict)",
					Required: false,
				},
			}),
		},
		func(ctx context.Context, input braveSearchInput) (*braveMediaOutput, error) {
			results, err := client.ImageSearch(ctx, input.Query, input.Count, input.Safesearch)
			if err != nil {
				return &braveMediaOutput{Error: fmt.Sprintf("Error performing image search: %v", err)}, nil
			}
			return &braveMediaOutput{Results: results}, nil
		},
	)

	videoTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "brave_video_search",
			Desc: "Search for videos including tutorials and explanations",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query":       braveCommonParams["query"],
				"count":       braveCommonParams["count"],
				"country":     braveCommonParams["country"],
				"search_lang": braveCommonParams["search_lang"],
			}),
		},
		func(ctx context.Context, input braveSearchInput) (*braveMediaOutput, error) {
			results, err := client.VideoSearch(ctx, input.Query, input.Count, input.Country, input.SearchLang)
			if err != nil {
				return &braveMediaOutput{Error: fmt.Sprintf("Error performing video search: %v", err)}, nil
			}
			return &braveMediaOutput{Results: results}, nil
		},
	)

	summarizerTool := t_utils.NewTool(
		&schema.ToolInfo{
			Name: "brave_ai_summarizer",
			Desc: "Get an AI-powered summary of a complex topic from web search results",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query":       braveCommonParams["query"],
				"count":       braveCommonParams["count"],
				"country":     braveCommonParams["country"],
				"search_lang": braveCommonParams["search_lang"],
			}),
		},
		func(ctx context.Context, input braveSearchInput) (*braveSummaryOutput, error) {
			summary, err := client.Summarize(ctx, input.Query, input.Count, input.Country, input.SearchLang)
			if err != nil {
				return &braveSummaryOutput{Error: fmt.Sprintf("Error generating summary: %v", err)}, nil
			}
			return &braveSummaryOutput{Summary: summary}, nil
		},
	)

	return []tool.BaseTool{webTool, newsTool, imageTool, videoTool, summarizerTool}
}
