package database

import (
	"context"

	"log/slog"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

var dynamoClient *DynamoClient

type DynamoClient struct {
	Client *dynamodb.DynamoDB
}

func newDynamoClient(sess *session.Session) *DynamoClient {
	if dynamoClient == nil {
		dynamoClient = &DynamoClient{
			Client: dynamodb.New(sess),
		}
	}
	return dynamoClient
}

func (d *DynamoClient) Query(ctx context.Context, input *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
	output, err := d.Client.QueryWithContext(ctx, input)

	if err != nil {
		storeLogger.Error("query failed", slog.String("error", err.Error()))
		return nil, err
	}
	return output, nil
}

func (d *DynamoClient) GetOne(ctx context.Context, input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	output, err := d.Client.GetItemWithContext(ctx, input)

	if err != nil {
		storeLogger.Error("get failed", slog.String("error", err.Error()))
		return nil, err
	}
	return output, nil
}

func (d *DynamoClient) PutItem(ctx context.Context, input *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	if output, err := d.Client.PutItemWithContext(ctx, input); err != nil {
		storeLogger.Error("put failed", slog.String("error", err.Error()))
		return nil, err
	} else {
		return output, nil
	}
}

func (d *DynamoClient) Scan(ctx context.Context, input *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
	if output, err := d.Client.ScanWithContext(ctx, input); err != nil {
		storeLogger.Error("scan failed", slog.String("error", err.Error()))
		return nil, err
	} else {
		return output, nil
	}
}

func (d *DynamoClient) DeleteItem(ctx context.Context, input *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) {
	if output, err := d.Client.DeleteItemWithContext(ctx, input); err != nil {
		storeLogger.Error("delete failed", slog.String("error", err.Error()))
		return nil, err
	} else {
		return output, nil
	}
}
