package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/524D/multiplex/internal/engine"
	"github.com/524D/multiplex/internal/quant"
	"github.com/parquet-go/parquet-go"
)

// parquetFeatureRow flattens one quant.Feature into a columnar record;
// parquet-go derives the schema from the struct tags.
type parquetFeatureRow struct {
	ID          string  `parquet:"id"`
	ConsensusID string  `parquet:"consensus_id"`
	PeptideIdx  int     `parquet:"peptide_idx"`
	RT          float64 `parquet:"rt"`
	Mz          float64 `parquet:"mz"`
	Intensity   float64 `parquet:"intensity"`
	Quality     float64 `parquet:"quality"`
}

// writeResults writes the consensus map and feature map to
// "<prefix>.consensus.json", "<prefix>.features.json" and
// "<prefix>.features.parquet".
func writeResults(prefix string, result engine.Result) error {
	if err := writeJSON(prefix+".consensus.json", result.Consensus); err != nil {
		return fmt.Errorf("writing consensus map: %w", err)
	}
	if err := writeJSON(prefix+".features.json", result.Features); err != nil {
		return fmt.Errorf("writing feature map: %w", err)
	}
	if err := writeFeatureParquet(prefix+".features.parquet", result.Features); err != nil {
		return fmt.Errorf("writing feature parquet: %w", err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFeatureParquet(path string, features quant.FeatureMap) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := parquet.NewWriter(f, parquet.SchemaOf(parquetFeatureRow{}))
	for _, ft := range features {
		row := parquetFeatureRow{
			ID:          ft.ID,
			ConsensusID: ft.ConsensusID,
			PeptideIdx:  ft.PeptideIdx,
			RT:          ft.RT,
			Mz:          ft.Mz,
			Intensity:   ft.Intensity,
			Quality:     ft.Quality,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Close()
}
