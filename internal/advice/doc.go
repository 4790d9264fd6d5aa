// Package advice produces short study recommendations in Russian.
//
// Prompt builders turn gradebook data into a Prompt. Some inputs are answered
// with a canned reply and never reach the model, e.g. a subject without weak
// topics or a student in first place. Service sends the rest to an Advisor
// and replaces any model failure with the prompt's fallback text, so callers
// always get something to show.
package advice
