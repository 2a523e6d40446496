package llmjudge

import (
	"fmt"

	"github.com/datar-psa/evalscore/api"
)

// choiceToScore maps anchored A-E judgements to [0,1]
var choiceToScore = map[string]float64{
	"A": 1.0,
	"B": 0.75,
	"C": 0.5,
	"D": 0.25,
	"E": 0.0,
}

// choiceSchema is the structured response shared by the A-E judges
func choiceSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"choice": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"A", "B", "C", "D", "E"},
				"description": description,
			},
			"explanation": map[string]interface{}{
				"type":        "string",
				"description": "Short justification for the choice (<=50 words)",
			},
		},
		"required": []string{"choice", "explanation"},
	}
}

// applyChoice validates a structured judge response and fills result with the mapped score.
func applyChoice(result *api.Score, response map[string]interface{}) error {
	choice, ok := response["choice"].(string)
	if !ok {
		return fmt.Errorf("failed to extract choice from structured response")
	}

	explanation, ok := response["explanation"].(string)
	if !ok {
		return fmt.Errorf("failed to extract explanation from structured response")
	}

	score, ok := choiceToScore[choice]
	if !ok {
		return fmt.Errorf("unexpected choice %q", choice)
	}

	result.Score = score
	result.Metadata["choice"] = choice
	result.Metadata["explanation"] = explanation
	result.Metadata["raw_response"] = response
	return nil
}

// returnError is a helper function to set error metadata consistently
func returnError(result *api.Score, err error, rawResponse interface{}) api.Score {
	result.Error = err
	result.Score = 0
	result.Metadata["raw_response"] = rawResponse
	return *result
}
