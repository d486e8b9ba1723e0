package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const hexID = "65f1a2b3c4d5e6f708192a3b"

func TestParseDocID(t *testing.T) {
	// 24 hex-символа распознаются как ObjectID
	id := ParseDocID(hexID)
	assert.Equal(t, hexID, id.String())
	assert.False(t, id.IsZero())

	// Всё остальное — внешняя строка
	ext := ParseDocID("mission_1700000000000_abc123def")
	assert.Equal(t, "mission_1700000000000_abc123def", ext.String())
	assert.False(t, ext.IsZero())

	// Пустая строка дает нулевой идентификатор
	assert.True(t, ParseDocID("").IsZero())
}

func TestDocIDFromValue(t *testing.T) {
	oid, err := primitive.ObjectIDFromHex(hexID)
	require.NoError(t, err)

	assert.Equal(t, hexID, NewDocIDFromObjectID(oid).String())
	assert.Equal(t, hexID, DocIDFromValue(oid).String())
	assert.Equal(t, "ext-1", DocIDFromValue("ext-1").String())
	assert.Equal(t, hexID, DocIDFromValue(ParseDocID(hexID)).String())
	assert.True(t, DocIDFromValue(42).IsZero())
}

func TestDocIDFilter(t *testing.T) {
	// Для ObjectID фильтр пробует обе формы хранения
	filter := ParseDocID(hexID).Filter()
	in, ok := filter["_id"].(bson.M)
	require.True(t, ok)
	forms, ok := in["$in"].(bson.A)
	require.True(t, ok)
	require.Len(t, forms, 2)
	assert.Equal(t, hexID, forms[1])

	// Для внешней строки фильтр точный
	assert.Equal(t, bson.M{"_id": "ext-1"}, ParseDocID("ext-1").Filter())
}

func TestDocIDBSONRoundTrip(t *testing.T) {
	type doc struct {
		ID DocID `bson:"_id"`
	}

	// ObjectID сохраняет нативное представление
	raw, err := bson.Marshal(doc{ID: ParseDocID(hexID)})
	require.NoError(t, err)

	var asMap bson.M
	require.NoError(t, bson.Unmarshal(raw, &asMap))
	_, isOID := asMap["_id"].(primitive.ObjectID)
	assert.True(t, isOID)

	var decoded doc
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, hexID, decoded.ID.String())

	// Строковый идентификатор сохраняет строковое представление
	raw, err = bson.Marshal(doc{ID: ParseDocID("ext-1")})
	require.NoError(t, err)

	require.NoError(t, bson.Unmarshal(raw, &asMap))
	_, isString := asMap["_id"].(string)
	assert.True(t, isString)

	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, "ext-1", decoded.ID.String())
}

func TestDocIDJSON(t *testing.T) {
	// Клиентам уходит каноническая строка
	data, err := json.Marshal(ParseDocID(hexID))
	require.NoError(t, err)
	assert.Equal(t, `"`+hexID+`"`, string(data))

	var id DocID
	require.NoError(t, json.Unmarshal([]byte(`"ext-1"`), &id))
	assert.Equal(t, "ext-1", id.String())
}
