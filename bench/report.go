// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bench

import (
	"encoding/csv"
	stdjson "encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/luxfi/montbench/utils/json"
)

var (
	tableHeader = []string{
		"Case", "Phase", "Avg ticks", "Avg ns", "Mbit/s",
		"Min", "Max", "Std dev", "Speedup", "Correct",
	}
	samplesHeader = []string{"case", "variant", "op", "trial", "ticks"}
)

// WriteText renders outcomes as a human readable performance and correctness
// report.
func WriteText(w io.Writer, outcomes []Outcome) error {
	for _, o := range outcomes {
		if _, err := fmt.Fprintf(w, "\n==============================\n %s\n==============================\n", o.Label); err != nil {
			return err
		}
		if o.Err != nil {
			if _, err := fmt.Fprintf(w, " aborted: %v\n", o.Err); err != nil {
				return err
			}
			continue
		}

		r := o.Result
		lines := []string{
			fmt.Sprintf("\n[Performance] %s (key size: %d bits, %d trials)", r.Label, r.KeyBits, r.Trials),
			measurementLine("HW enc", r.Hardware.Encrypt),
			measurementLine("HW dec", r.Hardware.Decrypt),
			measurementLine("SW enc", r.Software.Encrypt),
			measurementLine("SW dec", r.Software.Decrypt),
			fmt.Sprintf(" Enc speedup (SW/HW): %s", r.Speedup.Encrypt),
			fmt.Sprintf(" Dec speedup (SW/HW): %s", r.Speedup.Decrypt),
			"\n[Correctness]",
			fmt.Sprintf(" HW dec == msg: %s", Correctness(r.Hardware.Correct)),
			fmt.Sprintf(" SW dec == msg: %s", Correctness(r.Software.Correct)),
			fmt.Sprintf(" HW enc == SW enc: %s", Correctness(r.CiphertextsAgree)),
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func measurementLine(name string, m Measurement) string {
	return fmt.Sprintf(" %s: avg %d cycles, %d ns, %d Mbit/s", name, m.AvgTicks, m.AvgNanos, m.Mbps)
}

// WriteTable renders one row per phase of every outcome.
func WriteTable(w io.Writer, outcomes []Outcome) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(tableHeader)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, o := range outcomes {
		if o.Err != nil {
			table.Append([]string{o.Label, "aborted", o.Err.Error(), "", "", "", "", "", "", ""})
			continue
		}

		r := o.Result
		rows := []struct {
			phase   Phase
			m       Measurement
			speedup string
			correct bool
		}{
			{phaseHardwareEncrypt, r.Hardware.Encrypt, r.Speedup.Encrypt.String(), r.CiphertextsAgree},
			{phaseHardwareDecrypt, r.Hardware.Decrypt, r.Speedup.Decrypt.String(), r.Hardware.Correct},
			{phaseSoftwareEncrypt, r.Software.Encrypt, "", r.CiphertextsAgree},
			{phaseSoftwareDecrypt, r.Software.Decrypt, "", r.Software.Correct},
		}
		for _, row := range rows {
			table.Append([]string{
				r.Label,
				row.phase.String(),
				strconv.FormatUint(row.m.AvgTicks, 10),
				strconv.FormatUint(row.m.AvgNanos, 10),
				strconv.FormatUint(row.m.Mbps, 10),
				strconv.FormatUint(row.m.MinTicks, 10),
				strconv.FormatUint(row.m.MaxTicks, 10),
				strconv.FormatFloat(row.m.StdDevTicks, 'f', 1, 64),
				row.speedup,
				Correctness(row.correct),
			})
		}
	}
	table.Render()
	return nil
}

type jsonMeasurement struct {
	AvgTicks      json.Uint64  `json:"avgTicks"`
	AvgNanos      json.Uint64  `json:"avgNanos"`
	BitsPerSecond json.Uint64  `json:"bitsPerSecond"`
	Mbps          json.Uint64  `json:"mbps"`
	MinTicks      json.Uint64  `json:"minTicks"`
	MaxTicks      json.Uint64  `json:"maxTicks"`
	MedianTicks   json.Float64 `json:"medianTicks"`
	StdDevTicks   json.Float64 `json:"stdDevTicks"`
	Samples       []uint64     `json:"samples,omitempty"`
}

type jsonVariant struct {
	Encrypt jsonMeasurement `json:"encrypt"`
	Decrypt jsonMeasurement `json:"decrypt"`
	Correct bool            `json:"correct"`
}

type jsonResult struct {
	Label            string      `json:"label"`
	Accelerator      string      `json:"accelerator"`
	Base             json.Hex32  `json:"base"`
	KeyBits          int         `json:"keyBits"`
	Trials           int         `json:"trials"`
	Frequency        json.Uint64 `json:"frequency"`
	Hardware         jsonVariant `json:"hardware"`
	Software         jsonVariant `json:"software"`
	EncryptSpeedup   Ratio       `json:"encryptSpeedup"`
	DecryptSpeedup   Ratio       `json:"decryptSpeedup"`
	CiphertextsAgree bool        `json:"ciphertextsAgree"`
}

type jsonOutcome struct {
	Label  string      `json:"label"`
	Error  string      `json:"error,omitempty"`
	Result *jsonResult `json:"result,omitempty"`
}

// WriteJSON writes outcomes as an indented JSON array. 64-bit counters are
// encoded as strings. Raw samples are included when withSamples is set.
func WriteJSON(w io.Writer, outcomes []Outcome, withSamples bool) error {
	out := make([]jsonOutcome, len(outcomes))
	for i, o := range outcomes {
		out[i].Label = o.Label
		if o.Err != nil {
			out[i].Error = o.Err.Error()
			continue
		}
		r := o.Result
		out[i].Result = &jsonResult{
			Label:            r.Label,
			Accelerator:      r.Handle.Label,
			Base:             json.Hex32(r.Handle.Base),
			KeyBits:          r.KeyBits,
			Trials:           r.Trials,
			Frequency:        json.Uint64(r.Frequency),
			Hardware:         newJSONVariant(r.Hardware, withSamples),
			Software:         newJSONVariant(r.Software, withSamples),
			EncryptSpeedup:   r.Speedup.Encrypt,
			DecryptSpeedup:   r.Speedup.Decrypt,
			CiphertextsAgree: r.CiphertextsAgree,
		}
	}

	enc := stdjson.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func newJSONVariant(v Variant, withSamples bool) jsonVariant {
	return jsonVariant{
		Encrypt: newJSONMeasurement(v.Encrypt, withSamples),
		Decrypt: newJSONMeasurement(v.Decrypt, withSamples),
		Correct: v.Correct,
	}
}

func newJSONMeasurement(m Measurement, withSamples bool) jsonMeasurement {
	j := jsonMeasurement{
		AvgTicks:      json.Uint64(m.AvgTicks),
		AvgNanos:      json.Uint64(m.AvgNanos),
		BitsPerSecond: json.Uint64(m.BitsPerSecond),
		Mbps:          json.Uint64(m.Mbps),
		MinTicks:      json.Uint64(m.MinTicks),
		MaxTicks:      json.Uint64(m.MaxTicks),
		MedianTicks:   json.Float64(m.MedianTicks),
		StdDevTicks:   json.Float64(m.StdDevTicks),
	}
	if withSamples {
		j.Samples = m.Samples
	}
	return j
}

// WriteSamplesCSV writes every trial of every completed case, one per row.
func WriteSamplesCSV(w io.Writer, outcomes []Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(samplesHeader); err != nil {
		return err
	}
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		for _, phase := range phases {
			for i, ticks := range o.Result.Measurement(phase).Samples {
				record := []string{
					o.Label,
					phase.Variant,
					phase.Op,
					strconv.Itoa(i),
					strconv.FormatUint(ticks, 10),
				}
				if err := cw.Write(record); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
