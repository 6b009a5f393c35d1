package agent

import (
	"strings"
	"text/template"

	"fxagent/internal/tool"
)

// AssistantPreamble opens the scratchpad of the tool-calling agent
const AssistantPreamble = "I'll help you with currency exchange information. Let me check the current rates for you."

var systemPromptTemplate = template.Must(template.New("system").Parse(
	`You are a helpful currency exchange assistant powered by {{.Provider}} ({{.Model}}). You have access to real-time currency exchange rates through specialized tools.

When users ask about currency rates or conversions:
1. Use the get_currency_rates tool to get general exchange rates for a base currency
2. Use the get_specific_currency_rate tool to get conversion rates between two specific currencies
3. Always provide the most current information available
4. Be helpful and explain the rates in a user-friendly way
5. If asked about trends or predictions, remind users that you only have current rates, not historical data or predictions

You can handle queries like:
- "What's the current USD to EUR rate?"
- "Show me exchange rates for GBP"
- "How much is 100 USD in Japanese Yen?"
- "What are the current exchange rates?"

Always be clear about when the rates were last updated and provide accurate, helpful information.`))

var reactPromptTemplate = template.Must(template.New("react").Parse(
	`You are a helpful currency exchange assistant. You have access to tools that provide real-time currency exchange rates.

TOOLS:
You have access to the following tools:

{{.Tools}}

Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [{{.ToolNames}}]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question

IMPORTANT RULES:
1. You MUST use the available tools to get current exchange rates - do NOT provide rates from your training data
2. Always start by using the appropriate tool to get real-time data
3. For general rate queries, use get_currency_rates
4. For specific currency pair queries, use get_specific_currency_rate
5. Always provide the timestamp when rates were last updated
6. Be helpful and explain the rates clearly

Begin!

Question: {{.Input}}
Thought: I need to get current exchange rate information using the available tools.
`))

func renderSystemPrompt(cfg *Config) (string, error) {
	var b strings.Builder
	err := systemPromptTemplate.Execute(&b, map[string]string{
		"Provider": strings.ToUpper(string(cfg.Provider)),
		"Model":    cfg.Model,
	})
	return b.String(), err
}

func renderReActPrompt(registry *tool.Registry, input string) (string, error) {
	var b strings.Builder
	err := reactPromptTemplate.Execute(&b, map[string]string{
		"Tools":     registry.Describe(),
		"ToolNames": strings.Join(registry.Names(), ", "),
		"Input":     input,
	})
	return b.String(), err
}

// scratchpad renders completed steps the way the model is asked to write them
func scratchpad(steps []Step) string {
	var b strings.Builder
	for _, s := range steps {
		b.WriteString(s.Log)
		b.WriteString("\nObservation: ")
		b.WriteString(s.Observation)
		b.WriteString("\nThought: ")
	}
	return b.String()
}
