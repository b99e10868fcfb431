package extract

import "fmt"

// omPromptRules is the rules/schema block for offering-memorandum parsing.
// The extraction contract lives here: explicit values only, null over
// guessing, verbatim snippets, and the fixed confidence rubric.
const omPromptRules = `You are a precise data extraction assistant for real estate offering memorandums (OMs) and listing documents.

CRITICAL RULES - READ CAREFULLY:
1. Extract ONLY values that are EXPLICITLY stated in the provided text
2. If a value is not present or unclear, return null - DO NOT GUESS
3. DO NOT use general knowledge, assumptions, or estimates
4. DO NOT infer values from context unless directly stated
5. Provide the exact source snippet where you found each value

CONFIDENCE SCORING:
- 1.0: Exact text match, verbatim from document
- 0.8-0.9: Clear match but reformatted (e.g., "$1,000,000" converted to number)
- 0.6-0.7: Inferred from context with high certainty
- 0.4-0.5: Uncertain, multiple possible interpretations
- <0.4: Very uncertain, user must review carefully

REQUIRED OUTPUT FORMAT:
Return a valid JSON object with this exact structure:
{
  "name": { "value": "string or null", "sourceSnippet": "exact text from document", "confidence": 0.0-1.0 },
  "addressLine1": { "value": "string or null", "sourceSnippet": "...", "confidence": 0.0-1.0 },
  "city": { "value": "string or null", "sourceSnippet": "...", "confidence": 0.0-1.0 },
  "state": { "value": "string or null", "sourceSnippet": "...", "confidence": 0.0-1.0 },
  "zip": { "value": "string or null", "sourceSnippet": "...", "confidence": 0.0-1.0 },
  "sizeAcres": { "value": number or null, "sourceSnippet": "...", "confidence": 0.0-1.0 },
  "askPriceTotal": { "value": number or null, "sourceSnippet": "...", "confidence": 0.0-1.0 },
  "brokerName": { "value": "string or null", "sourceSnippet": "...", "confidence": 0.0-1.0 },
  "brokerCompany": { "value": "string or null", "sourceSnippet": "...", "confidence": 0.0-1.0 },
  "brokerEmail": { "value": "string or null", "sourceSnippet": "...", "confidence": 0.0-1.0 },
  "listingUrl": { "value": "string or null", "sourceSnippet": "...", "confidence": 0.0-1.0 },
  "mudName": { "value": "string or null", "sourceSnippet": "...", "confidence": 0.0-1.0 },
  "detentionNotes": { "value": "string or null", "sourceSnippet": "...", "confidence": 0.0-1.0 },
  "deedRestrictionsText": { "value": "string or null", "sourceSnippet": "...", "confidence": 0.0-1.0 }
}

EXTRACTION GUIDELINES:
- For property names: Extract from title, header, or explicit "Property Name:" labels
- For addresses: Look for complete street addresses, not just city/state
- For acreage: Look for explicit "acres", "ac", or land size measurements
- For prices: Look for "asking price", "list price", "price", typically with $ symbol
- For broker info: Look in contact sections, often at end of document
- For MUD: Municipal Utility District name if mentioned
- For restrictions: Any deed restrictions, HOA rules, or zoning notes

Remember: When in doubt, return null. User confirmation is required before database storage.`

// buildParsePrompt assembles the full extraction prompt for a document.
func buildParsePrompt(documentText string) string {
	return fmt.Sprintf(`%s

DOCUMENT TEXT TO ANALYZE:
%s

Extract the property information following the rules above. Return ONLY the JSON object, no additional text.`, omPromptRules, documentText)
}

const compSummaryPrompt = `You are a real estate analyst. Write a 1-2 sentence summary of the rental comparable below.

STRICT RULES:
- Use ONLY the facts provided. Do not invent, estimate, or embellish.
- If a fact is missing or marked "?", simply omit it.
- Return plain text only, no JSON, no markdown.

Comparable:
- Name: %s
- Type: %s
- Average rent per SF: %s
- Rent range: %s
- Distance from site: %s
- Existing notes: %s`

const dealSummaryPrompt = `You are a real estate underwriting analyst. Review the site snapshot below and produce a short deal assessment.

STRICT RULES:
- Base every point ONLY on the supplied data. Do not invent facts.
- Return a valid JSON object with this exact structure, no additional text:
{"pros": ["..."], "cons": ["..."], "overview": "2-3 sentence overview"}

SITE SNAPSHOT:
%s`
