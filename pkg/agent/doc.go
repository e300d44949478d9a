// Package agent performs single-turn invocations of a hosted Bedrock
// agent: it resolves the agent identifiers, issues one InvokeAgent call
// per user prompt, and extracts the reply text from the response event
// stream. Failures come back as typed InvokeError values; mapping them to
// display text belongs to the presentation layer.
package agent
