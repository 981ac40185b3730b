// Package experience loads and normalizes candidate banks.
package experience

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/jonathan/resume-packer/internal/schemas"
	"github.com/jonathan/resume-packer/internal/types"
)

// LoadCandidateBank loads, validates and normalizes a candidate bank from a JSON file
func LoadCandidateBank(path string) (*types.CandidateBank, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Stage: StageRead, Cause: err}
	}

	bank, err := ParseCandidateBank(content)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return nil, err
	}
	return bank, nil
}

// ParseCandidateBank checks content against the candidate bank schema, decodes it,
// normalizes whitespace and applies struct validation. Errors are *LoadError.
func ParseCandidateBank(content []byte) (*types.CandidateBank, error) {
	if err := schemas.ValidateCandidateBank(content); err != nil {
		return nil, &LoadError{Stage: StageSchema, Cause: err}
	}

	var bank types.CandidateBank
	if err := json.Unmarshal(content, &bank); err != nil {
		return nil, &LoadError{Stage: StageDecode, Cause: err}
	}

	NormalizeCandidateBank(&bank)
	if err := bank.Validate(); err != nil {
		return nil, &LoadError{Stage: StageValidate, Cause: err}
	}
	return &bank, nil
}
