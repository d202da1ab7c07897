package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
)

// AthenaAPI is the slice of the Athena client the runner needs.
type AthenaAPI interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

type Runner struct {
	Client    AthenaAPI
	Workgroup string
	Database  string
	OutputS3  string // s3://bucket/prefix/; empty uses the workgroup's setting
	Poll      time.Duration
	Logger    *slog.Logger
}

func (r *Runner) ExecAndWait(ctx context.Context, sql string) (*types.QueryExecution, error) {
	in := &athena.StartQueryExecutionInput{
		QueryString: &sql,
		QueryExecutionContext: &types.QueryExecutionContext{
			Database: &r.Database,
		},
	}
	if r.Workgroup != "" {
		in.WorkGroup = &r.Workgroup
	}
	if r.OutputS3 != "" {
		in.ResultConfiguration = &types.ResultConfiguration{OutputLocation: &r.OutputS3}
	}
	startOut, err := r.Client.StartQueryExecution(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("start query: %w", err)
	}
	qid := *startOut.QueryExecutionId
	if r.Logger != nil {
		r.Logger.Debug("athena query started", "qid", qid)
	}

	poll := r.Poll
	if poll <= 0 {
		poll = time.Second
	}
	tick := time.NewTicker(poll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-tick.C:
			ge, err := r.Client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
				QueryExecutionId: &qid,
			})
			if err != nil {
				return nil, fmt.Errorf("get query execution: %w", err)
			}
			switch ge.QueryExecution.Status.State {
			case types.QueryExecutionStateSucceeded:
				if r.Logger != nil && ge.QueryExecution.Statistics != nil && ge.QueryExecution.Statistics.DataScannedInBytes != nil {
					r.Logger.Debug("athena query succeeded", "qid", qid,
						"scanned_mb", float64(*ge.QueryExecution.Statistics.DataScannedInBytes)/1024.0/1024.0)
				}
				return ge.QueryExecution, nil
			case types.QueryExecutionStateFailed:
				msg := ""
				if ge.QueryExecution.Status.StateChangeReason != nil {
					msg = *ge.QueryExecution.Status.StateChangeReason
				}
				return nil, errors.New("athena failed: " + msg)
			case types.QueryExecutionStateCancelled:
				return nil, errors.New("athena cancelled")
			default:
				// still running
			}
		}
	}
}

// Rows runs sql and returns every result row as strings. Athena puts the
// column header in the first row of the first page; it is kept.
func (r *Runner) Rows(ctx context.Context, sql string) ([][]string, error) {
	exec, err := r.ExecAndWait(ctx, sql)
	if err != nil {
		return nil, err
	}
	var (
		out   [][]string
		token *string
	)
	for {
		gr, err := r.Client.GetQueryResults(ctx, &athena.GetQueryResultsInput{
			QueryExecutionId: exec.QueryExecutionId,
			NextToken:        token,
		})
		if err != nil {
			return nil, fmt.Errorf("get results: %w", err)
		}
		if gr.ResultSet != nil {
			for _, row := range gr.ResultSet.Rows {
				rec := make([]string, len(row.Data))
				for i, d := range row.Data {
					if d.VarCharValue != nil {
						rec[i] = *d.VarCharValue
					}
				}
				out = append(out, rec)
			}
		}
		if gr.NextToken == nil || *gr.NextToken == "" {
			break
		}
		token = gr.NextToken
	}
	return out, nil
}
