package storage

import (
	"encoding/json"
	"errors"

	"spinstack/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeSweep(record model.SweepRecord) ([]byte, error) {
	return json.Marshal(record)
}

func DecodeSweep(data []byte) (model.SweepRecord, error) {
	var record model.SweepRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.SweepRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.SweepRecord{}, err
	}
	return record, nil
}

func EncodeDOS(record model.DOSRecord) ([]byte, error) {
	return json.Marshal(record)
}

func DecodeDOS(data []byte) (model.DOSRecord, error) {
	var record model.DOSRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.DOSRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.DOSRecord{}, err
	}
	return record, nil
}

func EncodeEnergyTraces(traces []model.EnergyTrace) ([]byte, error) {
	return json.Marshal(traces)
}

func DecodeEnergyTraces(data []byte) ([]model.EnergyTrace, error) {
	var traces []model.EnergyTrace
	if err := json.Unmarshal(data, &traces); err != nil {
		return nil, err
	}
	return traces, nil
}

func checkVersion(record model.VersionedRecord) error {
	if record.SchemaVersion != CurrentSchemaVersion || record.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

// Stamp sets the current schema and codec versions on a record.
func Stamp() model.VersionedRecord {
	return model.VersionedRecord{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
	}
}
