package factura

import (
	"github.com/solera/factura/fields"
	"github.com/solera/factura/items"
	"github.com/solera/factura/layout"
)

// Config bundles the settings of every extraction stage. Zero values
// are not usable; start from [DefaultConfig] and override fields.
type Config struct {
	// Zones controls vertical banding.
	Zones layout.ZoneConfig

	// Vocabulary drives the functional block classifier.
	Vocabulary layout.Vocabulary

	// Lines configures line grouping and label/value pairing. Its
	// label list defaults to the default vocabulary; align it when
	// swapping Vocabulary so pair candidates follow suit.
	Lines layout.LineConfig

	// Rules hold the per-field extraction cascades.
	Rules fields.RuleSet

	// Items configures line item segmentation.
	Items items.Config
}

// DefaultConfig returns the stock Spanish-invoice configuration.
func DefaultConfig() Config {
	return Config{
		Zones:      layout.DefaultZoneConfig(),
		Vocabulary: layout.DefaultVocabulary(),
		Lines:      layout.DefaultLineConfig(),
		Rules:      fields.DefaultRuleSet(),
		Items:      items.DefaultConfig(),
	}
}
