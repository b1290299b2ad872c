package weather

import (
	"encoding/json"
	"fmt"
)

// Marshal renders the observation as compact JSON. Field names are part of
// the command's output contract.
func Marshal(obs Observation) ([]byte, error) {
	b, err := json.Marshal(obs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSerializationFailed, err.Error())
	}
	return b, nil
}
