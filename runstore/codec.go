package runstore

import (
	"encoding/json"
	"errors"
)

const CurrentSchemaVersion = 1

var ErrVersionMismatch = errors.New("run record version mismatch")

func EncodeRun(r Run) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (Run, error) {
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return Run{}, err
	}
	if run.SchemaVersion != CurrentSchemaVersion {
		return Run{}, ErrVersionMismatch
	}
	return run, nil
}
