package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payload holds a free-form JSON value (object, array, string, number).
// Stored values decode back to plain maps and slices so they render as ordinary JSON.
type Payload struct {
	Value interface{}
}

// NewPayload wraps v.
func NewPayload(v interface{}) Payload {
	return Payload{Value: v}
}

func (p Payload) IsZero() bool {
	return p.Value == nil
}

func (p Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Value)
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.Value = v
	return nil
}

func (p Payload) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if p.Value == nil {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(p.Value)
}

func (p *Payload) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.Null || t == bsontype.Undefined {
		p.Value = nil
		return nil
	}
	var v interface{}
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&v); err != nil {
		return err
	}
	p.Value = plain(v)
	return nil
}

func plain(v interface{}) interface{} {
	switch x := v.(type) {
	case bson.D:
		m := make(map[string]interface{}, len(x))
		for _, e := range x {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]interface{}, len(x))
		for k, val := range x {
			m[k] = plain(val)
		}
		return m
	case bson.A:
		out := make([]interface{}, len(x))
		for i, val := range x {
			out[i] = plain(val)
		}
		return out
	case primitive.DateTime:
		return x.Time().UTC().Format(time.RFC3339Nano)
	case primitive.ObjectID:
		return x.Hex()
	default:
		return v
	}
}
