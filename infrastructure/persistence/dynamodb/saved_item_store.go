package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"list-api/application/ports"
	"list-api/domain/core/entities"
	apperrors "list-api/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// API is the subset of the DynamoDB client the stores use
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// savedItemRecord is the DynamoDB item structure for a saved item
type savedItemRecord struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	ItemID      string `dynamodbav:"ItemID"`
	ResolvedID  string `dynamodbav:"ResolvedID,omitempty"`
	URL         string `dynamodbav:"URL"`
	GivenURL    string `dynamodbav:"GivenURL,omitempty"`
	Title       string `dynamodbav:"Title,omitempty"`
	Status      string `dynamodbav:"Status"`
	IsFavorite  bool   `dynamodbav:"IsFavorite"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
	UpdatedAt   string `dynamodbav:"UpdatedAt"`
	FavoritedAt string `dynamodbav:"FavoritedAt,omitempty"`
	ArchivedAt  string `dynamodbav:"ArchivedAt,omitempty"`
}

// tagRecord is the DynamoDB item structure for one tag on one item
type tagRecord struct {
	PK  string `dynamodbav:"PK"`
	SK  string `dynamodbav:"SK"`
	Tag string `dynamodbav:"Tag"`
}

func userKey(userID string) string   { return "USER#" + userID }
func itemKey(itemID string) string   { return "ITEM#" + itemID }
func tagPrefix(itemID string) string { return "TAG#" + itemID + "#" }

// SavedItemStore loads saved items and their tags from the list table
type SavedItemStore struct {
	client    API
	tableName string
	logger    *zap.Logger
}

var (
	_ ports.SavedItemLoader = (*SavedItemStore)(nil)
	_ ports.TagLoader       = (*SavedItemStore)(nil)
)

// NewSavedItemStore creates a store over tableName
func NewSavedItemStore(client API, tableName string, logger *zap.Logger) *SavedItemStore {
	return &SavedItemStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// SavedItemByID loads one saved item
func (s *SavedItemStore) SavedItemByID(ctx context.Context, userID, itemID string) (*entities.SavedItem, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userKey(userID)},
			"SK": &types.AttributeValueMemberS{Value: itemKey(itemID)},
		},
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError("GetItem", err)
	}
	if result.Item == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("saved item %s", itemID))
	}

	var record savedItemRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, apperrors.NewDatabaseError("UnmarshalSavedItem", err)
	}
	return record.toEntity(), nil
}

// TagsForItem queries every tag row under the item, sorted by name
func (s *SavedItemStore) TagsForItem(ctx context.Context, userID, itemID string) ([]entities.Tag, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(userKey(userID))).
		And(expression.Key("SK").BeginsWith(tagPrefix(itemID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("BuildTagQuery", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	tags := make([]entities.Tag, 0)
	for {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, apperrors.NewDatabaseError("Query", err)
		}
		for _, item := range result.Items {
			var record tagRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				s.logger.Warn("Skipping malformed tag record", zap.String("itemId", itemID), zap.Error(err))
				continue
			}
			tags = append(tags, entities.Tag{Name: record.Tag})
		}
		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	sort.Slice(tags, func(i, j int) bool {
		return strings.ToLower(tags[i].Name) < strings.ToLower(tags[j].Name)
	})
	return tags, nil
}

func (r savedItemRecord) toEntity() *entities.SavedItem {
	item := &entities.SavedItem{
		ID:         r.ItemID,
		ResolvedID: r.ResolvedID,
		URL:        r.URL,
		GivenURL:   r.GivenURL,
		Title:      r.Title,
		Status:     entities.ItemStatus(r.Status),
		IsFavorite: r.IsFavorite,
		IsArchived: entities.ItemStatus(r.Status) == entities.StatusArchived,
		CreatedAt:  parseTime(r.CreatedAt),
		UpdatedAt:  parseTime(r.UpdatedAt),
	}
	if r.FavoritedAt != "" {
		t := parseTime(r.FavoritedAt)
		item.FavoritedAt = &t
	}
	if r.ArchivedAt != "" {
		t := parseTime(r.ArchivedAt)
		item.ArchivedAt = &t
	}
	return item
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
