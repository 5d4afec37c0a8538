package agents

const SystemPrompt = "You are a helpful weather assistant. Provide clear, concise weather information. Ask for clarification if location is unclear."

// Guidance injected before each tool result so the model knows how to
// interpret and present it.
var toolPrompts = map[string]string{
	"locate": `You have received geographic coordinates for a location.
Use these coordinates to fetch weather data if needed.
If the location was not found (error field present), politely ask the user to provide a more specific city name or verify the spelling.`,

	"current_conditions": `You have received current weather data for a location.
Present this information in a clear, conversational way:
- Lead with the current temperature and condition
- Mention feels-like temperature if significantly different
- Include wind speed and humidity when relevant
- Use appropriate units based on the data provided
- Keep the response concise but informative

If there's an error field, inform the user that weather data is temporarily unavailable and suggest trying again.`,

	"forecast": `You have received forecast data filtered to the requested timeframe, in 3-hour intervals.
Summarize the overall trend rather than listing every entry:
- Mention the temperature range and dominant condition
- Call out rain chances when precipitation probability is notable
- Use appropriate units based on the data provided

If there's an error field or the entries list is empty, inform the user that forecast data is temporarily unavailable for that timeframe.`,
}

const fallbackToolPrompt = "Process the tool result and provide a helpful response to the user."

// GetToolPrompt returns the guidance for a tool, or a generic fallback for
// tools without a dedicated prompt.
func GetToolPrompt(toolName string) string {
	if prompt, ok := toolPrompts[toolName]; ok {
		return prompt
	}
	return fallbackToolPrompt
}
