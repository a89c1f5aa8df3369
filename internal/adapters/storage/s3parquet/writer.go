// Package s3parquet implements the warehouse sink as Parquet files on S3,
// hive-partitioned so serverless query engines can prune by year/month.
//
// Layout under the configured prefix:
//
//	dim/dim_currency.parquet                      overwritten each run
//	dim/dim_date.parquet                          overwritten each run
//	fact/fact_fx_rates/year=YYYY/month=MM/data.parquet
//	runs/<run_id>.json                            one manifest per run
//
// Unlike the Postgres sink there is no queryable state to seed surrogate keys
// from, so fact files carry natural keys and idempotence comes from
// whole-object overwrite rather than insert-if-absent.
package s3parquet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
	portsrepo "github.com/MessaoudiOussama/fx-pipeline/internal/core/ports/repositories"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// ObjectPutter is the slice of the S3 API the writer needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures the S3 parquet sink.
type Options struct {
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
}

// Writer buffers dimension rows as they arrive and writes all three tables to
// S3. It implements the same warehouse facade as the Postgres repository.
type Writer struct {
	client ObjectPutter
	bucket string
	prefix string
	logger *slog.Logger

	currencyByID map[int64]domain.CurrencyDim
	dateByID     map[int64]domain.DateDim
}

type currencyRecord struct {
	CurrencyCode string `parquet:"name=currency_code, type=BYTE_ARRAY, convertedtype=UTF8"`
	CurrencyName string `parquet:"name=currency_name, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type dateRecord struct {
	FullDate  string `parquet:"name=full_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Year      int32  `parquet:"name=year, type=INT32"`
	Month     int32  `parquet:"name=month, type=INT32"`
	Quarter   int32  `parquet:"name=quarter, type=INT32"`
	Day       int32  `parquet:"name=day, type=INT32"`
	IsWeekend bool   `parquet:"name=is_weekend, type=BOOLEAN"`
}

type factRecord struct {
	FullDate         string  `parquet:"name=full_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	FromCurrencyCode string  `parquet:"name=from_currency_code, type=BYTE_ARRAY, convertedtype=UTF8"`
	ToCurrencyCode   string  `parquet:"name=to_currency_code, type=BYTE_ARRAY, convertedtype=UTF8"`
	Rate             float64 `parquet:"name=rate, type=DOUBLE"`
	Year             int32   `parquet:"name=year, type=INT32"`
	Month            int32   `parquet:"name=month, type=INT32"`
}

// NewWriter builds the S3 client from the AWS config chain (static credentials
// when provided, the default chain otherwise) and returns the sink.
func NewWriter(ctx context.Context, opts Options, logger *slog.Logger) (*Writer, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return NewWriterWithClient(s3.NewFromConfig(awsCfg), opts.Bucket, opts.Prefix, logger), nil
}

// NewWriterWithClient wires an existing S3 client; used by tests.
func NewWriterWithClient(client ObjectPutter, bucket, prefix string, logger *slog.Logger) *Writer {
	return &Writer{
		client:       client,
		bucket:       bucket,
		prefix:       prefix,
		logger:       logger,
		currencyByID: make(map[int64]domain.CurrencyDim),
		dateByID:     make(map[int64]domain.DateDim),
	}
}

// Ensure Writer implements the warehouse facade
var _ portsrepo.WarehouseRepositoryFacade = (*Writer)(nil)

// ListCurrencyDims returns nothing: an object store has no queryable dimension
// state, so every run starts from an empty registry and overwrites its output.
func (w *Writer) ListCurrencyDims(ctx context.Context) ([]domain.CurrencyDim, error) {
	return nil, nil
}

// ListDateDims returns nothing; see ListCurrencyDims.
func (w *Writer) ListDateDims(ctx context.Context) ([]domain.DateDim, error) {
	return nil, nil
}

// SaveCurrencyDims writes the currency dimension file and retains the rows for
// resolving fact rows back to natural keys.
func (w *Writer) SaveCurrencyDims(ctx context.Context, dims []domain.CurrencyDim) error {
	records := make([]currencyRecord, 0, len(dims))
	for _, dim := range dims {
		w.currencyByID[dim.CurrencyID] = dim
		records = append(records, currencyRecord{
			CurrencyCode: dim.CurrencyCode,
			CurrencyName: dim.CurrencyName,
		})
	}
	data, err := marshalParquet(records)
	if err != nil {
		return fmt.Errorf("failed to build dim_currency parquet: %w", err)
	}
	return w.upload(ctx, w.key("dim/dim_currency.parquet"), data, len(records))
}

// SaveDateDims writes the date dimension file and retains the rows for
// partitioning fact rows.
func (w *Writer) SaveDateDims(ctx context.Context, dims []domain.DateDim) error {
	records := make([]dateRecord, 0, len(dims))
	for _, dim := range dims {
		w.dateByID[dim.DateID] = dim
		records = append(records, dateRecord{
			FullDate:  dim.FullDate.Format(domain.DateLayout),
			Year:      int32(dim.Year),
			Month:     int32(dim.Month),
			Quarter:   int32(dim.Quarter),
			Day:       int32(dim.Day),
			IsWeekend: dim.IsWeekend,
		})
	}
	data, err := marshalParquet(records)
	if err != nil {
		return fmt.Errorf("failed to build dim_date parquet: %w", err)
	}
	return w.upload(ctx, w.key("dim/dim_date.parquet"), data, len(records))
}

// SaveFactRows resolves fact rows back to natural keys, groups them into
// year/month partitions and overwrites one parquet object per partition.
func (w *Writer) SaveFactRows(ctx context.Context, factRows []domain.FactRow) (int64, error) {
	partitions := make(map[string][]factRecord)
	for _, row := range factRows {
		record, err := w.toFactRecord(row)
		if err != nil {
			return 0, err
		}
		key := FactPartitionKey(int(record.Year), int(record.Month))
		partitions[key] = append(partitions[key], record)
	}

	keys := make([]string, 0, len(partitions))
	for key := range partitions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		data, err := marshalParquet(partitions[key])
		if err != nil {
			return 0, fmt.Errorf("failed to build fact parquet for %s: %w", key, err)
		}
		if err := w.upload(ctx, w.key(key), data, len(partitions[key])); err != nil {
			return 0, err
		}
	}
	return int64(len(factRows)), nil
}

// RecordLoadRun uploads a small JSON manifest describing the run.
func (w *Writer) RecordLoadRun(ctx context.Context, run domain.LoadRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal load run manifest: %w", err)
	}
	return w.upload(ctx, w.key(fmt.Sprintf("runs/%s.json", run.RunID)), data, 1)
}

// FactPartitionKey returns the hive-style object key for one fact partition,
// relative to the sink prefix.
func FactPartitionKey(year, month int) string {
	return fmt.Sprintf("fact/fact_fx_rates/year=%d/month=%02d/data.parquet", year, month)
}

func (w *Writer) toFactRecord(row domain.FactRow) (factRecord, error) {
	date, ok := w.dateByID[row.DateID]
	if !ok {
		return factRecord{}, fmt.Errorf("fact row references unknown date id %d", row.DateID)
	}
	from, ok := w.currencyByID[row.FromCurrencyID]
	if !ok {
		return factRecord{}, fmt.Errorf("fact row references unknown currency id %d", row.FromCurrencyID)
	}
	to, ok := w.currencyByID[row.ToCurrencyID]
	if !ok {
		return factRecord{}, fmt.Errorf("fact row references unknown currency id %d", row.ToCurrencyID)
	}
	return factRecord{
		FullDate:         date.FullDate.Format(domain.DateLayout),
		FromCurrencyCode: from.CurrencyCode,
		ToCurrencyCode:   to.CurrencyCode,
		Rate:             row.Rate,
		Year:             int32(date.Year),
		Month:            int32(date.Month),
	}, nil
}

func (w *Writer) key(suffix string) string {
	if w.prefix == "" {
		return suffix
	}
	return w.prefix + "/" + suffix
}

func (w *Writer) upload(ctx context.Context, key string, data []byte, rowCount int) error {
	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, w.bucket, err)
	}
	w.logger.Info("Uploaded object",
		slog.String("key", key),
		slog.Int("rows", rowCount),
		slog.Int("bytes", len(data)))
	return nil
}

// marshalParquet serializes rows into an in-memory snappy-compressed parquet file.
func marshalParquet[T any](rows []T) ([]byte, error) {
	fw := newMemoryFile()
	pw, err := writer.NewParquetWriter(fw, new(T), 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			pw.WriteStop()
			return nil, fmt.Errorf("failed to write parquet record: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return fw.Bytes(), nil
}
