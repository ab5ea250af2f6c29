package shipping

import (
	"encoding/json"
	"fmt"
	"os"
)

// UnknownRegionCode is the reserved code for labels that were not part of
// the training vocabulary.
const UnknownRegionCode = 0

// RegionEncoder maps region labels to the integer codes assigned at
// training time. Labels outside the vocabulary encode to UnknownRegionCode;
// that is a policy, not an error, so the model path never fails on an
// unseen region.
type RegionEncoder struct {
	classes map[string]int
}

// regionEncoderArtifact mirrors the JSON file exported by the training
// pipeline alongside the model.
type regionEncoderArtifact struct {
	Classes map[string]int `json:"classes"`
}

// NewRegionEncoder builds an encoder from an in-memory vocabulary.
func NewRegionEncoder(classes map[string]int) *RegionEncoder {
	return &RegionEncoder{classes: classes}
}

// LoadRegionEncoder reads an encoder vocabulary artifact from disk.
func LoadRegionEncoder(path string) (*RegionEncoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read encoder artifact: %w", err)
	}

	var artifact regionEncoderArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("parse encoder artifact %s: %w", path, err)
	}
	if len(artifact.Classes) == 0 {
		return nil, fmt.Errorf("encoder artifact %s has an empty vocabulary", path)
	}

	return &RegionEncoder{classes: artifact.Classes}, nil
}

// Encode returns the integer code for a region label, or UnknownRegionCode
// when the label was not seen at training time.
func (e *RegionEncoder) Encode(label string) int {
	if code, ok := e.classes[label]; ok {
		return code
	}
	return UnknownRegionCode
}
