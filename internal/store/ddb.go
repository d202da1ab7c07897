package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBScanAPI is the slice of the DynamoDB client the profile loader needs.
type DynamoDBScanAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoDBWriteAPI is the slice of the DynamoDB client the profile importer needs.
type DynamoDBWriteAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// ProfileItem is one row of the player profiles table.
type ProfileItem struct {
	Name   string
	League string
	Team   string
	Link   string
}

// ScanPlayerProfiles reads every item of the profiles table.
//
// Expected item shape (all S attributes):
//
//	Name   "Erling Haaland"
//	League "Premier League"
//	Team   "Manchester City"
//	Link   "https://fbref.com/en/players/1f44ac21/Erling-Haaland"
func ScanPlayerProfiles(ctx context.Context, ddb DynamoDBScanAPI, table string) ([]ProfileItem, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("dynamodb: empty table name")
	}
	p := dynamodb.NewScanPaginator(ddb, &dynamodb.ScanInput{
		TableName: aws.String(table),
		// Name is a DynamoDB reserved word
		ProjectionExpression: aws.String("#n, League, Team, Link"),
		ExpressionAttributeNames: map[string]string{
			"#n": "Name",
		},
	})

	out := make([]ProfileItem, 0, 1024)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		for _, it := range page.Items {
			out = append(out, ProfileItem{
				Name:   getStr(it, "Name"),
				League: getStr(it, "League"),
				Team:   getStr(it, "Team"),
				Link:   getStr(it, "Link"),
			})
		}
	}
	return out, nil
}

func getStr(m map[string]types.AttributeValue, key string) string {
	if v, ok := m[key]; ok {
		switch t := v.(type) {
		case *types.AttributeValueMemberS:
			return strings.TrimSpace(t.Value)
		case *types.AttributeValueMemberN:
			return t.Value
		}
	}
	return ""
}

// PutPlayerProfiles writes items keyed by Name (the table's partition key).
// Items without a name or link are skipped.
func PutPlayerProfiles(ctx context.Context, ddb DynamoDBWriteAPI, table string, items []ProfileItem) error {
	if len(items) == 0 {
		return nil
	}
	const maxBatch = 25

	for i := 0; i < len(items); i += maxBatch {
		end := min(i+maxBatch, len(items))

		reqs := make([]types.WriteRequest, 0, end-i)
		for _, it := range items[i:end] {
			if it.Name == "" || it.Link == "" {
				continue
			}
			item := map[string]types.AttributeValue{
				"Name":   &types.AttributeValueMemberS{Value: it.Name}, // PK
				"League": &types.AttributeValueMemberS{Value: it.League},
				"Team":   &types.AttributeValueMemberS{Value: it.Team},
				"Link":   &types.AttributeValueMemberS{Value: it.Link},
			}
			reqs = append(reqs, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}
		if len(reqs) == 0 {
			continue
		}
		if err := batchWriteWithRetry(ctx, ddb, table, reqs); err != nil {
			return fmt.Errorf("batch write player profiles: %w", err)
		}
	}
	return nil
}

// batchWriteWithRetry resubmits UnprocessedItems, which DynamoDB returns when
// a batch is throttled.
func batchWriteWithRetry(ctx context.Context, ddb DynamoDBWriteAPI, table string, reqs []types.WriteRequest) error {
	input := &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{table: reqs},
	}
	const maxAttempts = 6
	backoff := 120 * time.Millisecond

	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, err := ddb.BatchWriteItem(ctx, input)
		if err != nil {
			return err
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		input.RequestItems = out.UnprocessedItems
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 2*time.Second {
			backoff += 120 * time.Millisecond
		}
	}
	return fmt.Errorf("unprocessed items remained after retries for table %s", table)
}
