package mzml

import (
	"encoding/base64"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"testing"
)

// encodeFloat64Array base64-encodes a little-endian float64 array, mirroring
// how mzML binary data arrays are encoded (uncompressed, 64-bit).
func encodeFloat64Array(vals []float64) string {
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

func sampleMzML(mz, intens []float64, rtSeconds float64) string {
	mzB64 := encodeFloat64Array(mz)
	intB64 := encodeFloat64Array(intens)
	return `<?xml version="1.0" encoding="utf-8"?>
<mzML xmlns="http://psi.hupo.org/ms/mzml">
  <cvList count="0"></cvList>
  <fileDescription></fileDescription>
  <instrumentConfigurationList count="0"></instrumentConfigurationList>
  <dataProcessingList count="0"></dataProcessingList>
  <run id="r" defaultSourceFileRef="sourceFile1">
    <spectrumList count="1">
      <spectrum index="0" id="scan=1" defaultArrayLength="` + itoa(len(mz)) + `">
        <cvParam accession="MS:1000511" name="ms level" value="1"/>
        <cvParam accession="MS:1000127" name="centroid spectrum"/>
        <scanList count="1">
          <scan>
            <cvParam accession="MS:1000016" name="scan start time" value="` + ftoa(rtSeconds) + `" unitAccession="UO:0000010"/>
          </scan>
        </scanList>
        <binaryDataArrayList count="2">
          <binaryDataArray>
            <cvParam accession="MS:1000514" name="m/z array"/>
            <cvParam accession="MS:1000523" name="64-bit float"/>
            <binary>` + mzB64 + `</binary>
          </binaryDataArray>
          <binaryDataArray>
            <cvParam accession="MS:1000515" name="intensity array"/>
            <cvParam accession="MS:1000523" name="64-bit float"/>
            <binary>` + intB64 + `</binary>
          </binaryDataArray>
        </binaryDataArrayList>
      </spectrum>
    </spectrumList>
  </run>
</mzML>`
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func TestRead_SingleCentroidSpectrum(t *testing.T) {
	doc := sampleMzML([]float64{500.0, 500.5, 501.0}, []float64{1000, 400, 150}, 150)

	f, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n := f.NumSpecs(); n != 1 {
		t.Fatalf("NumSpecs: got %d, want 1", n)
	}

	level, err := f.MSLevel(0)
	if err != nil || level != 1 {
		t.Fatalf("MSLevel: got (%d, %v), want (1, nil)", level, err)
	}

	peaks, err := f.ReadScan(0)
	if err != nil {
		t.Fatalf("ReadScan: %v", err)
	}
	if len(peaks) != 3 || peaks[0].Mz != 500.0 {
		t.Fatalf("ReadScan: got %+v", peaks)
	}

	rt, err := f.RetentionTime(0)
	if err != nil {
		t.Fatalf("RetentionTime: %v", err)
	}
	if math.Abs(rt-150) > 1e-6 {
		t.Fatalf("RetentionTime: got %f, want 150", rt)
	}
}

func TestToGrid_BuildsSpecgridFromSpectra(t *testing.T) {
	doc := sampleMzML([]float64{500.0, 500.5, 501.0}, []float64{1000, 400, 150}, 150)
	f, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	grid, err := f.ToGrid()
	if err != nil {
		t.Fatalf("ToGrid: %v", err)
	}
	if len(grid.Spectra) != 1 {
		t.Fatalf("ToGrid: got %d spectra, want 1", len(grid.Spectra))
	}
	if len(grid.Spectra[0].Peaks) != 3 {
		t.Fatalf("ToGrid: got %d peaks, want 3", len(grid.Spectra[0].Peaks))
	}
	for _, p := range grid.Spectra[0].Peaks {
		if p.Left >= p.Mz || p.Right <= p.Mz {
			t.Fatalf("ToGrid: peak %+v has invalid boundary", p)
		}
	}
}
