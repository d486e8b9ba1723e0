package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocID — идентификатор документа Mongo. Исторические данные хранят _id
// либо как нативный ObjectID, либо как произвольную строку, поэтому тип
// представляет оба варианта и даёт единый фильтр для поиска.
type DocID struct {
	oid   primitive.ObjectID
	raw   string
	isOID bool
}

// NewDocIDFromObjectID создает DocID из нативного ObjectID
func NewDocIDFromObjectID(oid primitive.ObjectID) DocID {
	return DocID{oid: oid, isOID: true}
}

// ParseDocID разбирает строковый идентификатор: 24 hex-символа трактуются
// как ObjectID, всё остальное — как внешняя строка
func ParseDocID(s string) DocID {
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		return DocID{oid: oid, isOID: true}
	}
	return DocID{raw: s}
}

// DocIDFromValue создает DocID из значения, прочитанного из бд
func DocIDFromValue(v interface{}) DocID {
	switch id := v.(type) {
	case primitive.ObjectID:
		return NewDocIDFromObjectID(id)
	case string:
		return ParseDocID(id)
	case DocID:
		return id
	}
	return DocID{}
}

// String возвращает каноническую строковую форму идентификатора.
// Она используется как ключ связи incident -> mission.
func (id DocID) String() string {
	if id.isOID {
		return id.oid.Hex()
	}
	return id.raw
}

// IsZero сообщает, что идентификатор не задан (нужно для omitempty)
func (id DocID) IsZero() bool {
	return !id.isOID && id.raw == ""
}

// Filter возвращает фильтр по _id, пробующий обе формы представления:
// сначала литеральную, затем строковую (данные могут смешивать типы)
func (id DocID) Filter() bson.M {
	if id.isOID {
		return bson.M{"_id": bson.M{"$in": bson.A{id.oid, id.oid.Hex()}}}
	}
	return bson.M{"_id": id.raw}
}

// MarshalBSONValue сериализует DocID в исходное представление
func (id DocID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if id.isOID {
		return bson.MarshalValue(id.oid)
	}
	return bson.MarshalValue(id.raw)
}

// UnmarshalBSONValue принимает как ObjectID, так и строковый _id
func (id *DocID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}

	if t == bsontype.ObjectID {
		if oid, ok := rv.ObjectIDOK(); ok {
			*id = DocID{oid: oid, isOID: true}
			return nil
		}
	}
	if t == bsontype.String {
		if s, ok := rv.StringValueOK(); ok {
			*id = ParseDocID(s)
			return nil
		}
	}

	return fmt.Errorf("models: unsupported _id bson type %s", t)
}

// MarshalJSON отдает клиентам каноническую строку
func (id DocID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

// UnmarshalJSON разбирает строковый идентификатор из JSON
func (id *DocID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*id = ParseDocID(s)
	return nil
}
