// Package llm provides an OpenRouter chat client for the delivery text
// generation and audio analysis steps.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Generate: system instruction plus task, plain text reply.
// Client.CompleteJSON: system/user prompts, JSON reply.
// Client.AnalyzeAudio: instruction plus base64 audio content part, JSON reply.
// Client.HealthCheck: verify API key and model availability.
// Client.WithModel: copy of the client bound to another model.
//
// # Failure Behaviour
//
// Every call is a single blocking request. There are no retries, and the
// request runs to completion unless the context is cancelled or
// timeout_seconds is set. Callers decide what a failure means for their
// field; the keyword rewriter falls back to the original phrase, the other
// steps leave the prior value untouched.
package llm
