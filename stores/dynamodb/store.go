package dynamodb

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"iter"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	gorevalidate "github.com/validstore/go-revalidate"
	"github.com/validstore/go-revalidate/stores"
)

// Config defines the configuration options for the DynamoDB store.
type Config struct {
	// RecordTTL defines how long validator items remain readable. The
	// expired_at attribute can additionally be registered as the table's
	// TTL attribute so DynamoDB deletes stale items itself.
	RecordTTL time.Duration

	Table string
}

// Store implements the gorevalidate.Store interface on Amazon DynamoDB.
// Validator values travel as gob blobs under a string hash key.
type Store struct {
	client *dynamodb.Client

	table string
	ttl   time.Duration
	now   func() time.Time
}

type storeItem struct {
	StoreKey  string `json:"store_key" dynamodbav:"store_key"`
	Validator []byte `json:"validator" dynamodbav:"validator"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"`
	ExpiredAt int64  `json:"expired_at" dynamodbav:"expired_at"`
}

// Get retrieves the validator stored under k. Items past their expired_at
// count as absent. Returns gorevalidate.ErrNotFound when no live item
// exists.
func (s *Store) Get(ctx context.Context, k gorevalidate.StoreKey) (*gorevalidate.ValidatorValue, error) {
	key, err := attributevalue.Marshal(string(k))
	if err != nil {
		return nil, err
	}

	output, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		Key: map[string]types.AttributeValue{
			"store_key": key,
		},
		ConsistentRead: aws.Bool(true),
		TableName:      aws.String(s.table),
	})
	if err != nil {
		return nil, err
	}

	if output.Item == nil {
		return nil, gorevalidate.ErrNotFound
	}

	var item storeItem
	if err := attributevalue.UnmarshalMap(output.Item, &item); err != nil {
		return nil, err
	}

	if s.now().UTC().Unix() >= item.ExpiredAt {
		return nil, gorevalidate.ErrNotFound
	}

	var v gorevalidate.ValidatorValue
	if err := gobDecode(item.Validator, &v); err != nil {
		return nil, err
	}

	return &v, nil
}

// Set stores the validator under k, replacing any previous item.
func (s *Store) Set(ctx context.Context, k gorevalidate.StoreKey, v *gorevalidate.ValidatorValue) error {
	createdAt := s.now().UTC()

	encoded, err := gobEncode(v)
	if err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(storeItem{
		StoreKey:  string(k),
		Validator: encoded,
		CreatedAt: createdAt.Unix(),
		ExpiredAt: createdAt.Add(s.ttl).Unix(),
	})
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	return err
}

// Delete removes the item stored under k. Deleting an absent key is not
// an error.
func (s *Store) Delete(ctx context.Context, k gorevalidate.StoreKey) error {
	key, err := attributevalue.Marshal(string(k))
	if err != nil {
		return err
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"store_key": key,
		},
	})
	return err
}

// KeysByPart pages through the table with Scan, yielding matching keys one
// page at a time. The case-sensitive form pushes a contains filter down to
// DynamoDB; the case-insensitive form has to filter client side, page by
// page, since DynamoDB has no case-folding function. Each range restarts
// the scan.
func (s *Store) KeysByPart(ctx context.Context, part string, ignoreCase bool) iter.Seq2[gorevalidate.StoreKey, error] {
	return func(yield func(gorevalidate.StoreKey, error) bool) {
		input := &dynamodb.ScanInput{
			TableName:            aws.String(s.table),
			ProjectionExpression: aws.String("store_key"),
		}
		if !ignoreCase {
			input.FilterExpression = aws.String("contains(store_key, :part)")
			input.ExpressionAttributeValues = map[string]types.AttributeValue{
				":part": &types.AttributeValueMemberS{Value: part},
			}
		}

		lowered := strings.ToLower(part)
		for {
			output, err := s.client.Scan(ctx, input)
			if err != nil {
				yield("", errors.Join(stores.ErrScanAborted, err))
				return
			}

			for _, item := range output.Items {
				var key string
				if err := attributevalue.Unmarshal(item["store_key"], &key); err != nil {
					yield("", errors.Join(stores.ErrScanAborted, err))
					return
				}
				if ignoreCase && !strings.Contains(strings.ToLower(key), lowered) {
					continue
				}
				if !yield(gorevalidate.StoreKey(key), nil) {
					return
				}
			}

			if output.LastEvaluatedKey == nil {
				return
			}
			input.ExclusiveStartKey = output.LastEvaluatedKey
		}
	}
}

func gobEncode(v *gorevalidate.ValidatorValue) ([]byte, error) {
	var buff bytes.Buffer
	if err := gob.NewEncoder(&buff).Encode(v); err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

func gobDecode(data []byte, v *gorevalidate.ValidatorValue) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// New creates a DynamoDB store with the provided configuration. Returns an
// error if the client is nil or the table name is empty.
func New(_ context.Context, client *dynamodb.Client, config *Config) (*Store, error) {
	if client == nil {
		return nil, stores.ValidationError{
			Reason: "nil client",
		}
	}
	if config == nil || config.Table == "" {
		return nil, stores.ValidationError{
			Reason: "empty table name",
		}
	}

	ttl := config.RecordTTL
	if ttl == 0 {
		ttl = stores.DefaultRecordTTL
	}

	return &Store{
		client: client,

		table: config.Table,
		ttl:   ttl,
		now:   time.Now,
	}, nil
}
