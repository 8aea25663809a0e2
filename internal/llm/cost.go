package llm

// modelPrices stores per-1K-token pricing in USD for known models:
// [input, output]. Used when the provider config carries no prices.
var modelPrices = map[string][2]float64{
	"gpt-4":         {0.03, 0.06},
	"gpt-4-turbo":   {0.01, 0.03},
	"gpt-4o":        {0.005, 0.015},
	"gpt-4o-mini":   {0.00015, 0.0006},
	"gpt-3.5-turbo": {0.0005, 0.0015},

	"qwen-turbo": {0.0000429, 0.0000857},
	"qwen-plus":  {0.000114, 0.000286},
	"qwen-max":   {0.00343, 0.0137},
}

// Cost derives the USD cost of one invocation. Explicit per-1K prices
// from the provider config win; otherwise the model table is
// consulted, and unknown models cost zero.
func Cost(model string, inputPrice, outputPrice float64, inputTokens, outputTokens int) float64 {
	if inputPrice == 0 && outputPrice == 0 {
		prices, ok := modelPrices[model]
		if !ok {
			return 0
		}
		inputPrice, outputPrice = prices[0], prices[1]
	}
	return float64(inputTokens)/1000.0*inputPrice + float64(outputTokens)/1000.0*outputPrice
}
