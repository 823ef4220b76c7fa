package prompts

import "github.com/helmcode/log-analyzer/pkg/llm"

// SystemPrompt instructs the model to summarize a log as a single JSON object.
const SystemPrompt = "You are an assistant that analyzes application error logs. " +
	"Given a log, identify distinct error types, count occurrences, provide earliest and latest timestamps for each type, " +
	"give one or two example messages for each type, estimate severity (low/medium/high), and provide remediation suggestions. " +
	"Return a JSON object only. The JSON must include keys: 'errors' (array), 'summary' (string), 'recommendations' (array)."

// UserPreamble precedes the raw log text in the user message.
const UserPreamble = "Analyze the following log. Output JSON only."

// BuildLogPrompt returns the system instruction and the user message carrying
// the whole log. The log is embedded as-is, without truncation.
func BuildLogPrompt(logText string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: UserPreamble + "\n\nLOG:\n" + logText},
	}
}
