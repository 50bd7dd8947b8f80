package database

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/n4u77i/reminderApp/internal/codec"
	"github.com/n4u77i/reminderApp/internal/model"
)

// OwnerIndex is the global secondary index partitioned by owner key (pk) and
// sorted by due time (sk).
const OwnerIndex = "index1"

var reminderRepo *ReminderRepository

// ReminderRepository is the DynamoDB-backed expiring store. The table keys
// records by id, carries the pk/sk secondary index, and has TTL enabled on
// the TTL attribute. The in-process sweeper drives expiry through
// ExpiredBefore and Remove so the feed contract holds without stream plumbing.
type ReminderRepository struct {
	client    *DynamoClient
	tableName string
}

func NewReminderRepository(sess *session.Session, tableName string) *ReminderRepository {
	if reminderRepo == nil {
		reminderRepo = &ReminderRepository{
			client:    newDynamoClient(sess),
			tableName: tableName,
		}
	}
	return reminderRepo
}

// Put inserts or fully replaces the record keyed by its id attribute.
func (r *ReminderRepository) Put(ctx context.Context, record map[string]codec.Value) error {
	ctx, span := getTracer().Start(ctx, "dynamo-put")
	defer span.End()

	input := &dynamodb.PutItemInput{
		TableName: &r.tableName,
		Item:      toAttributeMap(record),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		return storageErr("put", err)
	}
	return nil
}

// Get is a point lookup by id.
func (r *ReminderRepository) Get(ctx context.Context, id string) (map[string]codec.Value, error) {
	ctx, span := getTracer().Start(ctx, "dynamo-get")
	defer span.End()

	input := &dynamodb.GetItemInput{
		TableName: &r.tableName,
		Key: map[string]*dynamodb.AttributeValue{
			model.AttrID: {S: aws.String(id)},
		},
	}

	output, err := r.client.GetOne(ctx, input)
	if err != nil {
		return nil, storageErr("get", err)
	}
	if len(output.Item) == 0 {
		return nil, ErrReminderNotFound
	}

	return fromAttributeMap(output.Item), nil
}

// QueryByOwner queries the owner index, ordered by sort key.
func (r *ReminderRepository) QueryByOwner(ctx context.Context, owner string, ops *QueryOps) ([]map[string]codec.Value, error) {
	ctx, span := getTracer().Start(ctx, "dynamo-query")
	defer span.End()

	if ops == nil {
		ops = &QueryOps{}
	}

	keyExpression := "#pk = :hashValue"
	attrNames := map[string]*string{
		"#pk": aws.String(model.AttrOwnerKey),
	}
	attrValues := map[string]*dynamodb.AttributeValue{
		":hashValue": {S: aws.String(owner)},
	}

	if ops.SortValue != "" {
		keyExpression += " AND #sk = :rangeValue"
		attrNames["#sk"] = aws.String(model.AttrSortKey)
		attrValues[":rangeValue"] = &dynamodb.AttributeValue{S: aws.String(ops.SortValue)}
	}

	var records []map[string]codec.Value
	var lastEvaluatedKey map[string]*dynamodb.AttributeValue
	for {
		input := &dynamodb.QueryInput{
			TableName:                 &r.tableName,
			IndexName:                 aws.String(OwnerIndex),
			KeyConditionExpression:    aws.String(keyExpression),
			ExpressionAttributeNames:  attrNames,
			ExpressionAttributeValues: attrValues,
			ScanIndexForward:          aws.Bool(!ops.Descending),
			ExclusiveStartKey:         lastEvaluatedKey,
		}

		output, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, storageErr("query", err)
		}

		for _, item := range output.Items {
			records = append(records, fromAttributeMap(item))
		}

		if output.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = output.LastEvaluatedKey
	}

	return records, nil
}

// ExpiredBefore scans for records whose TTL is at or before t. The table's
// native TTL deletion lags by up to two days, so the sweeper usually wins.
func (r *ReminderRepository) ExpiredBefore(ctx context.Context, t time.Time) ([]map[string]codec.Value, error) {
	ctx, span := getTracer().Start(ctx, "dynamo-expired-before")
	defer span.End()

	cutoff := strconv.FormatInt(t.Unix(), 10)

	var records []map[string]codec.Value
	var lastEvaluatedKey map[string]*dynamodb.AttributeValue
	for {
		input := &dynamodb.ScanInput{
			TableName:        &r.tableName,
			FilterExpression: aws.String("#ttl <= :cutoff"),
			ExpressionAttributeNames: map[string]*string{
				"#ttl": aws.String(model.AttrTTL),
			},
			ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
				":cutoff": {N: aws.String(cutoff)},
			},
			ExclusiveStartKey: lastEvaluatedKey,
		}

		output, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, storageErr("scan", err)
		}

		for _, item := range output.Items {
			records = append(records, fromAttributeMap(item))
		}

		if output.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = output.LastEvaluatedKey
	}

	return records, nil
}

// Remove deletes the record and returns its pre-removal snapshot in one call.
func (r *ReminderRepository) Remove(ctx context.Context, id string) (map[string]codec.Value, error) {
	ctx, span := getTracer().Start(ctx, "dynamo-remove")
	defer span.End()

	input := &dynamodb.DeleteItemInput{
		TableName: &r.tableName,
		Key: map[string]*dynamodb.AttributeValue{
			model.AttrID: {S: aws.String(id)},
		},
		ReturnValues: aws.String(dynamodb.ReturnValueAllOld),
	}

	output, err := r.client.DeleteItem(ctx, input)
	if err != nil {
		return nil, storageErr("delete", err)
	}
	if len(output.Attributes) == 0 {
		return nil, ErrReminderNotFound
	}

	return fromAttributeMap(output.Attributes), nil
}

// toAttributeMap converts wire values into SDK attribute values. The variants
// line up one to one, so the conversion is mechanical.
func toAttributeMap(record map[string]codec.Value) map[string]*dynamodb.AttributeValue {
	item := make(map[string]*dynamodb.AttributeValue, len(record))
	for k, v := range record {
		item[k] = toAttributeValue(v)
	}
	return item
}

func toAttributeValue(v codec.Value) *dynamodb.AttributeValue {
	av := &dynamodb.AttributeValue{}
	switch {
	case v.S != nil:
		av.S = v.S
	case v.N != nil:
		av.N = v.N
	case v.BOOL != nil:
		av.BOOL = v.BOOL
	case v.NULL != nil:
		av.NULL = v.NULL
	case v.M != nil:
		av.M = toAttributeMap(v.M)
	case v.L != nil:
		l := make([]*dynamodb.AttributeValue, 0, len(v.L))
		for _, el := range v.L {
			l = append(l, toAttributeValue(el))
		}
		av.L = l
	}
	return av
}

func fromAttributeMap(item map[string]*dynamodb.AttributeValue) map[string]codec.Value {
	record := make(map[string]codec.Value, len(item))
	for k, av := range item {
		record[k] = fromAttributeValue(av)
	}
	return record
}

func fromAttributeValue(av *dynamodb.AttributeValue) codec.Value {
	v := codec.Value{}
	switch {
	case av.S != nil:
		v.S = av.S
	case av.N != nil:
		v.N = av.N
	case av.BOOL != nil:
		v.BOOL = av.BOOL
	case av.NULL != nil:
		v.NULL = av.NULL
	case av.M != nil:
		v.M = fromAttributeMap(av.M)
	case av.L != nil:
		l := make([]codec.Value, 0, len(av.L))
		for _, el := range av.L {
			l = append(l, fromAttributeValue(el))
		}
		v.L = l
	}
	return v
}

