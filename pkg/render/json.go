package render

import (
	"encoding/json"

	"github.com/matzehuels/stipple/pkg/errors"
)

// Document is the serialized form of a point set.
type Document struct {
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Points    int       `json:"points"`
	Positions []float64 `json:"positions"`
}

// JSON serializes the point set as a Document.
func JSON(positions []float64, width, height int) ([]byte, error) {
	if err := checkFrame(positions, width, height); err != nil {
		return nil, err
	}
	doc := Document{
		Width:     width,
		Height:    height,
		Points:    len(positions) / 2,
		Positions: positions,
	}
	if doc.Positions == nil {
		doc.Positions = []float64{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ReadJSON parses and validates a Document.
func ReadJSON(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse points document")
	}
	if err := checkFrame(doc.Positions, doc.Width, doc.Height); err != nil {
		return Document{}, err
	}
	if doc.Points != len(doc.Positions)/2 {
		return Document{}, errors.New(errors.ErrCodeInvalidInput,
			"points document declares %d points but holds %d", doc.Points, len(doc.Positions)/2)
	}
	for i := 0; i < len(doc.Positions); i += 2 {
		x, y := doc.Positions[i], doc.Positions[i+1]
		if !(x >= 0 && x <= float64(doc.Width)) || !(y >= 0 && y <= float64(doc.Height)) {
			return Document{}, errors.New(errors.ErrCodeInvalidInput,
				"point %d (%v, %v) lies outside the %dx%d frame", i/2, x, y, doc.Width, doc.Height)
		}
	}
	return doc, nil
}
