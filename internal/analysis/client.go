// Package analysis produces short narrative commentary for a spot's
// forecast via the OpenAI chat completions API.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/kitewatch/kitespot-aggregation/internal/spot"
)

// Input is the spot state the narrative is generated from.
type Input struct {
	Name    string
	Country string
	Daily   []spot.ForecastEntry
}

// Client calls the OpenAI API. An empty returned string is a valid result
// meaning "nothing worth saying", not an error.
type Client struct {
	client openai.Client
	model  openai.ChatModel
}

func NewClient(apiKey string) *Client {
	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModelGPT4oMini,
	}
}

// FetchAnalysis generates commentary in the requested language. A spot
// with no cached forecast yields an empty string without an API call.
func (c *Client) FetchAnalysis(ctx context.Context, in Input, lang spot.Language) (string, error) {
	if len(in.Daily) == 0 {
		return "", nil
	}

	chat, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(lang)),
			openai.UserMessage(buildPrompt(in)),
		},
		MaxCompletionTokens: openai.Int(300),
		Temperature:         openai.Float(0.6),
	})
	if err != nil {
		return "", fmt.Errorf("analysis for %s (%s): %w", in.Name, lang, err)
	}
	if len(chat.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(chat.Choices[0].Message.Content), nil
}

func systemPrompt(lang spot.Language) string {
	if lang == spot.LangPL {
		return "Jesteś doświadczonym instruktorem kitesurfingu. Oceń krótko prognozę dla spotu: " +
			"czy warto jechać, które dni wyglądają najlepiej i na jaki sprzęt. Maksymalnie cztery zdania."
	}
	return "You are an experienced kitesurfing instructor. Briefly assess the forecast for the spot: " +
		"whether it is worth the trip, which days look best, and what gear to bring. Four sentences at most."
}

func buildPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Spot: %s, %s\n", in.Name, in.Country)
	b.WriteString("Daily forecast (wind m/s, gusts m/s, direction, temp °C, precip mm):\n")
	for _, d := range in.Daily {
		fmt.Fprintf(&b, "%s: %.1f / %.1f %s, %.1f°C, %.1fmm\n",
			d.Label, d.WindSpeed, d.GustSpeed, d.Direction, d.Temperature, d.Precipitation)
	}
	return b.String()
}
