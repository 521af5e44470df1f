package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"list-api/domain/core/entities"
	apperrors "list-api/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockDynamoDB struct {
	mock.Mock
}

func (m *mockDynamoDB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func (m *mockDynamoDB) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*dynamodb.QueryOutput)
	return out, args.Error(1)
}

func marshal(t *testing.T, v interface{}) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(v)
	require.NoError(t, err)
	return av
}

func TestSavedItemStore_SavedItemByID(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := new(mockDynamoDB)
	record := savedItemRecord{
		PK:          userKey("1"),
		SK:          itemKey("12345"),
		ItemID:      "12345",
		URL:         "https://getpocket.com/",
		Status:      "ARCHIVED",
		IsFavorite:  true,
		CreatedAt:   "2020-09-13T12:26:40Z",
		UpdatedAt:   "2023-11-14T22:13:20Z",
		ArchivedAt:  "2023-11-14T22:13:20Z",
		FavoritedAt: "garbage",
	}
	client.On("GetItem", ctx, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		pk := in.Key["PK"].(*types.AttributeValueMemberS).Value
		sk := in.Key["SK"].(*types.AttributeValueMemberS).Value
		return aws.ToString(in.TableName) == "list" && pk == "USER#1" && sk == "ITEM#12345"
	})).Return(&dynamodb.GetItemOutput{Item: marshal(t, record)}, nil)

	store := NewSavedItemStore(client, "list", zap.NewNop())

	// Act
	item, err := store.SavedItemByID(ctx, "1", "12345")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "12345", item.ID)
	assert.Equal(t, entities.StatusArchived, item.Status)
	assert.True(t, item.IsArchived)
	assert.True(t, item.IsFavorite)
	assert.Equal(t, time.Date(2020, 9, 13, 12, 26, 40, 0, time.UTC), item.CreatedAt)
	require.NotNil(t, item.ArchivedAt)
	require.NotNil(t, item.FavoritedAt)
	assert.True(t, item.FavoritedAt.IsZero())
	client.AssertExpectations(t)
}

func TestSavedItemStore_SavedItemByID_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing item", func(t *testing.T) {
		client := new(mockDynamoDB)
		client.On("GetItem", ctx, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		_, err := NewSavedItemStore(client, "list", zap.NewNop()).SavedItemByID(ctx, "1", "2")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("client failure", func(t *testing.T) {
		client := new(mockDynamoDB)
		client.On("GetItem", ctx, mock.Anything).Return(nil, errors.New("throttled"))

		_, err := NewSavedItemStore(client, "list", zap.NewNop()).SavedItemByID(ctx, "1", "2")
		assert.Equal(t, apperrors.ErrorTypeDatabase, apperrors.TypeOf(err))
	})
}

func TestSavedItemStore_TagsForItem_PaginatesAndSorts(t *testing.T) {
	ctx := context.Background()
	client := new(mockDynamoDB)
	cursor := map[string]types.AttributeValue{"PK": &types.AttributeValueMemberS{Value: "USER#1"}}

	client.On("Query", ctx, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey == nil
	})).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{
			marshal(t, tagRecord{PK: "USER#1", SK: "TAG#12345#zebra", Tag: "zebra"}),
			marshal(t, tagRecord{PK: "USER#1", SK: "TAG#12345#Apple", Tag: "Apple"}),
		},
		LastEvaluatedKey: cursor,
	}, nil).Once()
	client.On("Query", ctx, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey != nil
	})).Return(&dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{
			marshal(t, tagRecord{PK: "USER#1", SK: "TAG#12345#mango", Tag: "mango"}),
		},
	}, nil).Once()

	tags, err := NewSavedItemStore(client, "list", zap.NewNop()).TagsForItem(ctx, "1", "12345")

	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "mango", "zebra"}, entities.TagNames(tags))
	client.AssertNumberOfCalls(t, "Query", 2)
}

func TestSavedItemStore_TagsForItem_Untagged(t *testing.T) {
	ctx := context.Background()
	client := new(mockDynamoDB)
	client.On("Query", ctx, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

	tags, err := NewSavedItemStore(client, "list", zap.NewNop()).TagsForItem(ctx, "1", "12345")

	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}
