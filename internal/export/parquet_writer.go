// Copyright (c) 2025 Neomantra Corp

// Package export writes reconstructed market snapshots to columnar and
// queryable sinks (parquet + DuckDB views), the natural "what do I do
// with a stream of Markets" answer matching the teacher's own
// internal/file + internal/mcp_data cache pattern.
package export

import (
	"fmt"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	pqfile "github.com/apache/arrow-go/v18/parquet/file"
	pqschema "github.com/apache/arrow-go/v18/parquet/schema"

	"github.com/larkspur-data/betfair-stream"
)

// RunnerRow is one flattened (market, runner, instant) observation: the
// per-runner summary fields an analyst typically wants out of a
// reconstructed book, rather than the full sparse ladder.
type RunnerRow struct {
	MarketID        string
	PublishTime     int64
	RunnerID        int64
	Handicap        float64
	Status          string
	TotalMatched    float64
	BestBackPrice   float64
	BestBackSize    float64
	BestLayPrice    float64
	BestLaySize     float64
	LastPriceTraded float64
}

// RunnerRowsFromSnapshot flattens every runner of every market in a
// snapshot into RunnerRow values, taking the best (first) entry of each
// EX ladder as the summary price/size.
func RunnerRowsFromSnapshot(snap *betfair.Snapshot) []RunnerRow {
	rows := make([]RunnerRow, 0, len(snap.Markets))
	for _, m := range snap.Markets {
		for _, r := range m.Runners {
			row := RunnerRow{
				MarketID:     string(m.MarketID),
				PublishTime:  int64(m.PublishTime),
				RunnerID:     int64(r.Key.ID),
				Handicap:     r.Key.Handicap,
				Status:       string(r.Status),
				TotalMatched: r.TotalMatched,
			}
			if entries := r.EX.AvailableToBack.Entries(); len(entries) > 0 {
				row.BestBackPrice, row.BestBackSize = entries[0].Price, entries[0].Size
			}
			if entries := r.EX.AvailableToLay.Entries(); len(entries) > 0 {
				row.BestLayPrice, row.BestLaySize = entries[0].Price, entries[0].Size
			}
			if r.LastPriceTraded != nil {
				row.LastPriceTraded = *r.LastPriceTraded
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// runnerRowGroupNode is the parquet schema for RunnerRow, following the
// teacher's MustGroup/MustPrimitive schema-building idiom.
func runnerRowGroupNode() *pqschema.GroupNode {
	return pqschema.MustGroup(pqschema.NewGroupNode("schema", parquet.Repetitions.Required, pqschema.FieldList{
		pqschema.MustPrimitive(pqschema.NewPrimitiveNodeConverted("market_id", parquet.Repetitions.Optional, parquet.Types.ByteArray, pqschema.ConvertedTypes.UTF8, 0, 0, 0, -1)),
		pqschema.MustPrimitive(pqschema.NewPrimitiveNodeLogical("publish_time", parquet.Repetitions.Optional, pqschema.NewTimestampLogicalType(true, pqschema.TimeUnitMillis), parquet.Types.Int64, 0, -1)),
		pqschema.NewInt64Node("runner_id", parquet.Repetitions.Optional, -1),
		pqschema.NewFloat64Node("handicap", parquet.Repetitions.Optional, -1),
		pqschema.MustPrimitive(pqschema.NewPrimitiveNodeConverted("status", parquet.Repetitions.Optional, parquet.Types.ByteArray, pqschema.ConvertedTypes.UTF8, 0, 0, 0, -1)),
		pqschema.NewFloat64Node("total_matched", parquet.Repetitions.Optional, -1),
		pqschema.NewFloat64Node("best_back_price", parquet.Repetitions.Optional, -1),
		pqschema.NewFloat64Node("best_back_size", parquet.Repetitions.Optional, -1),
		pqschema.NewFloat64Node("best_lay_price", parquet.Repetitions.Optional, -1),
		pqschema.NewFloat64Node("best_lay_size", parquet.Repetitions.Optional, -1),
		pqschema.NewFloat64Node("last_price_traded", parquet.Repetitions.Optional, -1),
	}, -1))
}

// ParquetWriter accumulates RunnerRow values into one buffered row group
// and flushes them to a parquet file on Close.
type ParquetWriter struct {
	pw  *pqfile.Writer
	rgw pqfile.BufferedRowGroupWriter
}

// NewParquetWriter opens dest for writing, snappy-compressed parquet v2.
func NewParquetWriter(dest any) (*ParquetWriter, error) {
	w, ok := dest.(interface {
		Write([]byte) (int, error)
	})
	if !ok {
		return nil, fmt.Errorf("export: destination does not implement io.Writer")
	}
	props := parquet.NewWriterProperties(
		parquet.WithVersion(parquet.V2_LATEST),
		parquet.WithCompression(compress.Codecs.Snappy))
	pw := pqfile.NewParquetWriter(w, runnerRowGroupNode(), pqfile.WithWriterProps(props))
	return &ParquetWriter{pw: pw, rgw: pw.AppendBufferedRowGroup()}, nil
}

// WriteRow appends one RunnerRow.
func (p *ParquetWriter) WriteRow(row RunnerRow) error {
	cw, err := p.rgw.Column(0)
	if err != nil {
		return err
	}
	cw.(*pqfile.ByteArrayColumnChunkWriter).WriteBatch([]parquet.ByteArray{[]byte(row.MarketID)}, []int16{1}, nil)

	cw, _ = p.rgw.Column(1)
	cw.(*pqfile.Int64ColumnChunkWriter).WriteBatch([]int64{row.PublishTime}, []int16{1}, nil)

	cw, _ = p.rgw.Column(2)
	cw.(*pqfile.Int64ColumnChunkWriter).WriteBatch([]int64{row.RunnerID}, []int16{1}, nil)

	cw, _ = p.rgw.Column(3)
	cw.(*pqfile.Float64ColumnChunkWriter).WriteBatch([]float64{row.Handicap}, []int16{1}, nil)

	cw, _ = p.rgw.Column(4)
	cw.(*pqfile.ByteArrayColumnChunkWriter).WriteBatch([]parquet.ByteArray{[]byte(row.Status)}, []int16{1}, nil)

	cw, _ = p.rgw.Column(5)
	cw.(*pqfile.Float64ColumnChunkWriter).WriteBatch([]float64{row.TotalMatched}, []int16{1}, nil)

	cw, _ = p.rgw.Column(6)
	cw.(*pqfile.Float64ColumnChunkWriter).WriteBatch([]float64{row.BestBackPrice}, []int16{1}, nil)

	cw, _ = p.rgw.Column(7)
	cw.(*pqfile.Float64ColumnChunkWriter).WriteBatch([]float64{row.BestBackSize}, []int16{1}, nil)

	cw, _ = p.rgw.Column(8)
	cw.(*pqfile.Float64ColumnChunkWriter).WriteBatch([]float64{row.BestLayPrice}, []int16{1}, nil)

	cw, _ = p.rgw.Column(9)
	cw.(*pqfile.Float64ColumnChunkWriter).WriteBatch([]float64{row.BestLaySize}, []int16{1}, nil)

	cw, _ = p.rgw.Column(10)
	cw.(*pqfile.Float64ColumnChunkWriter).WriteBatch([]float64{row.LastPriceTraded}, []int16{1}, nil)

	return nil
}

// Close flushes the row group and footer, closing the writer.
func (p *ParquetWriter) Close() error {
	if err := p.rgw.Close(); err != nil {
		return err
	}
	if err := p.pw.FlushWithFooter(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	return p.pw.Close()
}
