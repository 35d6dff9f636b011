// Package prompts builds the instruction prompts sent to the model provider.
// The wording is deliberately rigid: extraction downstream assumes responses
// that at least attempt the JSON shapes requested here.
package prompts

import (
	"strings"
)

const discoveryInstructions = `You are a business analyst with 20 years of experience. You can take any company's website url, and do research about it and figure out who their competitors are.

IMPORTANT: You must respond with ONLY a valid JSON array. Do not include any explanatory text, markdown formatting, or code blocks. Return only the raw JSON array.

The output must be a JSON array where each object has this exact structure:
{
  "name": "<company name>",
  "url": "<company website URL>"
}

Company URL: `

const researchInstructions = `You are a business analyst with 20 years of experience. You can take any company's website url, and do research about it and figure out how their networth has changed since they have started their company, how their number of users have changed since they started the business and how much funding they have made since the start of their company.

IMPORTANT: You must respond with ONLY valid JSON. Do not include any explanatory text, markdown formatting, or code blocks. Return only the raw JSON object.

The output must be a JSON object with this exact structure:

{
  "networth": [],
  "users": [],
  "funding": []
}

The "networth" array contains objects with this structure (each object must have these exact keys):
{
  "value": 1234567.89,
  "year": 2023,
  "source": "https://example.com/source"
}
Note: "value" must be a number in USD (normalize currency to USD if needed), "year" must be a number, "source" must be a valid URL string.

The "users" array contains objects with this structure (each object must have these exact keys):
{
  "value": 1000000,
  "year": 2023,
  "source": "https://example.com/source"
}
Note: "value" must be a number representing total users, "year" must be a number, "source" must be a valid URL string.

The "funding" array contains objects with this structure (each object must have these exact keys):
{
  "value": 5000000.00,
  "year": 2023,
  "source": "https://example.com/source"
}
Note: "value" must be a number in USD representing funding amount, "year" must be a number, "source" must be a valid URL string.

Company URL: `

// BuildCompetitorDiscoveryPrompt creates the prompt asking for a strict JSON
// array of {name, url} competitors of the company at the given URL.
func BuildCompetitorDiscoveryPrompt(companyURL string) string {
	var prompt strings.Builder

	prompt.WriteString(discoveryInstructions)
	prompt.WriteString(companyURL)
	prompt.WriteString("\n\nRemember: Output ONLY the JSON array, nothing else.")

	return prompt.String()
}

// BuildCompanyResearchPrompt creates the prompt asking for the networth,
// users, and funding time series of the company at the given URL.
func BuildCompanyResearchPrompt(companyURL string) string {
	var prompt strings.Builder

	prompt.WriteString(researchInstructions)
	prompt.WriteString(companyURL)
	prompt.WriteString("\n\nRemember: Output ONLY the JSON object, nothing else.")

	return prompt.String()
}
