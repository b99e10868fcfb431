package extract

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/vflor92/REanalyzer/internal/model"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// emailConfidenceCap is applied when the broker email fails the format
// check. It only ever lowers the reported confidence.
const emailConfidenceCap = 0.5

// validateAndSanitize assembles an ExtractionResult from the raw decoded
// model output, sanitizing every schema field and applying the one
// cross-field rule (broker email format).
func validateAndSanitize(raw map[string]any) *model.ExtractionResult {
	result := &model.ExtractionResult{
		Name:                 sanitizeText(raw["name"]),
		AddressLine1:         sanitizeText(raw["addressLine1"]),
		City:                 sanitizeText(raw["city"]),
		State:                sanitizeText(raw["state"]),
		Zip:                  sanitizeText(raw["zip"]),
		SizeAcres:            sanitizeNumber(raw["sizeAcres"]),
		AskPriceTotal:        sanitizeNumber(raw["askPriceTotal"]),
		BrokerName:           sanitizeText(raw["brokerName"]),
		BrokerCompany:        sanitizeText(raw["brokerCompany"]),
		BrokerEmail:          sanitizeText(raw["brokerEmail"]),
		ListingURL:           sanitizeText(raw["listingUrl"]),
		MudName:              sanitizeText(raw["mudName"]),
		DetentionNotes:       sanitizeText(raw["detentionNotes"]),
		DeedRestrictionsText: sanitizeText(raw["deedRestrictionsText"]),
	}

	if result.BrokerEmail.Value != nil && !emailRe.MatchString(*result.BrokerEmail.Value) {
		zap.L().Warn("extract: invalid broker email format",
			zap.String("value", *result.BrokerEmail.Value),
		)
		if result.BrokerEmail.Confidence > emailConfidenceCap {
			result.BrokerEmail.Confidence = emailConfidenceCap
		}
	}

	return result
}
