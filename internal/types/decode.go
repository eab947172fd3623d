package types

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeDocument decodes résumé JSON leniently. Scalars of the wrong type are converted
// where a conversion exists (3.8 becomes "3.8") and left blank otherwise; unknown fields are
// ignored. Only JSON that is not an object fails.
func DecodeDocument(data []byte) (*ResumeDocument, error) {
	var doc ResumeDocument
	if err := decodeLenient(data, &doc); err != nil {
		return nil, &DocumentError{Message: "failed to decode document", Cause: err}
	}
	return &doc, nil
}

// DecodeStyle decodes a style configuration leniently. A numeric field that cannot be read
// as a number stays nil, so style resolution substitutes its default.
func DecodeStyle(data []byte) (StyleConfig, error) {
	var cfg StyleConfig
	if err := decodeLenient(data, &cfg); err != nil {
		return StyleConfig{}, fmt.Errorf("failed to decode style: %w", err)
	}
	return cfg, nil
}

func decodeLenient(data []byte, out any) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	// mapstructure keeps decoding past a bad field and reports every failure at the end
	if err := dec.Decode(raw); err != nil {
		log.Printf("[types] Ignoring malformed fields: %v", err)
	}
	return nil
}
